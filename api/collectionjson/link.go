package collectionjson

// Link is a relation from a representation to another resource.
type Link struct {
	Href  string `json:"href" mapstructure:"href"`
	Rel   string `json:"rel" mapstructure:"rel"`
	Title string `json:"title,omitempty" mapstructure:"title"`
}

// Field is a single name/value pair of an item, query or template.
type Field struct {
	Name   string `json:"name" mapstructure:"name"`
	Value  any    `json:"value" mapstructure:"value"`
	Prompt string `json:"prompt,omitempty" mapstructure:"prompt"`
}

func parseLinks(v any) []Link {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	links := make([]Link, 0, len(list))
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		href, _ := obj["href"].(string)
		rel, _ := obj["rel"].(string)
		if href == "" || rel == "" {
			continue
		}
		title, _ := obj["prompt"].(string)
		if t, ok := obj["title"].(string); ok {
			title = t
		}
		links = append(links, Link{Href: href, Rel: rel, Title: title})
	}
	return links
}

func parseFields(v any) []Field {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	fields := make([]Field, 0, len(list))
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := obj["name"].(string)
		if name == "" {
			continue
		}
		prompt, _ := obj["prompt"].(string)
		fields = append(fields, Field{Name: name, Value: obj["value"], Prompt: prompt})
	}
	return fields
}
