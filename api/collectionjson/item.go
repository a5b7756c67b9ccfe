package collectionjson

import (
	"sort"

	"github.com/samber/lo"
)

// Item is an embedded member of a collection.
type Item struct {
	Href  string
	Data  []Field
	Links []Link
}

// ParseItem builds an Item from a raw `collection.items` entry. Objects
// without a `data` array are treated as flat records.
func ParseItem(obj map[string]any) Item {
	href, _ := obj["href"].(string)
	item := Item{
		Href:  href,
		Links: parseLinks(obj["links"]),
	}
	if _, ok := obj["data"].([]any); ok {
		item.Data = parseFields(obj["data"])
		return item
	}

	keys := lo.Filter(lo.Keys(obj), func(k string, _ int) bool {
		return k != "href" && k != "links"
	})
	sort.Strings(keys)
	item.Data = lo.Map(keys, func(k string, _ int) Field {
		return Field{Name: k, Value: obj[k]}
	})
	return item
}

// DataMap returns the item data keyed by field name.
func (i Item) DataMap() map[string]any {
	return fieldMap(i.Data)
}

// Value returns the value of the named data field.
func (i Item) Value(name string) (any, bool) {
	f, ok := lo.Find(i.Data, func(f Field) bool { return f.Name == name })
	return f.Value, ok
}

// Link returns the item link with the given relation.
func (i Item) Link(rel string) (Link, bool) {
	for n := len(i.Links) - 1; n >= 0; n-- {
		if i.Links[n].Rel == rel {
			return i.Links[n], true
		}
	}
	return Link{}, false
}

func fieldMap(fields []Field) map[string]any {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}
