package tint

import (
	"bytes"
	"encoding/json"

	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/samber/lo"
)

// bodyLinks reads the top-level `links` object of raw keeping the source
// order of its keys. Values may be an href string or an object with `href`
// and `title`.
func bodyLinks(raw []byte) []collectionjson.Link {
	return lo.FilterMap(orderedObject(raw, "links"), func(f collectionjson.Field, _ int) (collectionjson.Link, bool) {
		switch v := f.Value.(type) {
		case string:
			return collectionjson.Link{Rel: f.Name, Href: v}, true
		case map[string]any:
			href, _ := v["href"].(string)
			title, _ := v["title"].(string)
			return collectionjson.Link{Rel: f.Name, Href: href, Title: title}, href != ""
		}
		return collectionjson.Link{}, false
	})
}

// orderedObject returns the members of the top-level object key of raw in
// source order. It returns nil when key is missing or not an object.
func orderedObject(raw []byte, key string) []collectionjson.Field {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil
	}
	obj, ok := top[key]
	if !ok {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(obj))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var fields []collectionjson.Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fields
		}
		name, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return fields
		}
		fields = append(fields, collectionjson.Field{Name: name, Value: v})
	}
	return fields
}
