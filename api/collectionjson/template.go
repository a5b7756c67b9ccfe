package collectionjson

import "github.com/samber/lo"

// EnctypeMultipart is the template encoding that requests a multipart body.
const EnctypeMultipart = "multipart/form-data"

// Template is a server-declared form. Its fields are a whitelist: Fill never
// produces a key the server did not declare.
type Template struct {
	fields  []Field
	rel     string
	enctype string
}

// NewTemplate builds a template from ordered fields.
func NewTemplate(rel, enctype string, fields ...Field) *Template {
	return &Template{
		fields:  append([]Field(nil), fields...),
		rel:     rel,
		enctype: enctype,
	}
}

// ParseTemplate builds a Template from a raw `collection.template` object.
func ParseTemplate(obj map[string]any) *Template {
	rel, _ := obj["rel"].(string)
	enctype, _ := obj["enctype"].(string)
	return NewTemplate(rel, enctype, parseFields(obj["data"])...)
}

// Rel returns the relation the filled form is submitted under, or "".
func (t *Template) Rel() string {
	return t.rel
}

// Enctype returns the requested body encoding, or "".
func (t *Template) Enctype() string {
	return t.enctype
}

// Names returns the declared field names in order.
func (t *Template) Names() []string {
	return lo.Map(t.fields, func(f Field, _ int) string { return f.Name })
}

// Data returns a copy of the declared defaults.
func (t *Template) Data() map[string]any {
	return fieldMap(t.fields)
}

// Fill overlays values onto the declared fields. Undeclared keys in values
// are dropped.
func (t *Template) Fill(values map[string]any) Form {
	return lo.Map(t.fields, func(f Field, _ int) Field {
		if v, ok := values[f.Name]; ok {
			return Field{Name: f.Name, Value: v, Prompt: f.Prompt}
		}
		return f
	})
}

// Form is a filled template in declaration order.
type Form []Field

// Map returns the form keyed by field name.
func (f Form) Map() map[string]any {
	return fieldMap(f)
}

// Get returns the value of the named field.
func (f Form) Get(name string) (any, bool) {
	field, ok := lo.Find(f, func(field Field) bool { return field.Name == name })
	return field.Value, ok
}

// Names returns the field names in order.
func (f Form) Names() []string {
	return lo.Map(f, func(field Field, _ int) string { return field.Name })
}
