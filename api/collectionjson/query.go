package collectionjson

// Query is a server-described search affordance.
type Query struct {
	Href   string
	Rel    string
	Name   string
	Prompt string
	Data   []Field
}

// ParseQuery builds a Query from a raw `collection.queries` entry.
func ParseQuery(obj map[string]any) Query {
	q := Query{Data: parseFields(obj["data"])}
	q.Href, _ = obj["href"].(string)
	q.Rel, _ = obj["rel"].(string)
	q.Name, _ = obj["name"].(string)
	q.Prompt, _ = obj["prompt"].(string)
	return q
}
