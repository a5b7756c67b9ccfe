package collectionjson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newAccountTemplate() *Template {
	return NewTemplate("", "",
		Field{Name: "email", Value: ""},
		Field{Name: "age", Value: 29},
	)
}

func TestTemplateMetadata(t *testing.T) {
	tmpl := ParseTemplate(map[string]any{"data": []any{}})
	if tmpl.Rel() != "" || tmpl.Enctype() != "" {
		t.Errorf("empty template: rel=%q enctype=%q, want both empty", tmpl.Rel(), tmpl.Enctype())
	}

	tmpl = ParseTemplate(map[string]any{
		"data":    []any{},
		"rel":     "item",
		"enctype": EnctypeMultipart,
	})
	if tmpl.Rel() != "item" {
		t.Errorf("Rel() = %q, want %q", tmpl.Rel(), "item")
	}
	if tmpl.Enctype() != EnctypeMultipart {
		t.Errorf("Enctype() = %q, want %q", tmpl.Enctype(), EnctypeMultipart)
	}
}

func TestTemplateFill(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   map[string]any
	}{
		{
			name:   "overlays supplied values",
			values: map[string]any{"email": "arthur@dent.com"},
			want:   map[string]any{"email": "arthur@dent.com", "age": 29},
		},
		{
			name:   "ignores attributes not in the template",
			values: map[string]any{"email": "arthur@dent.com", "ignore": "me"},
			want:   map[string]any{"email": "arthur@dent.com", "age": 29},
		},
		{
			name:   "keeps defaults without values",
			values: nil,
			want:   map[string]any{"email": "", "age": 29},
		},
		{
			name:   "supplied nil replaces the default",
			values: map[string]any{"age": nil},
			want:   map[string]any{"email": "", "age": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := newAccountTemplate()
			got := tmpl.Fill(tt.values)
			if diff := cmp.Diff(tt.want, got.Map()); diff != "" {
				t.Errorf("Fill() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"email", "age"}, got.Names()); diff != "" {
				t.Errorf("Fill() order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTemplateFillLeavesDefaultsUntouched(t *testing.T) {
	tmpl := newAccountTemplate()
	want := map[string]any{"email": "", "age": 29}

	for _, values := range []map[string]any{
		{"email": "arthur@dent.com"},
		{"email": "ford@prefect.com", "age": 200},
		{},
	} {
		tmpl.Fill(values)
		if diff := cmp.Diff(want, tmpl.Data()); diff != "" {
			t.Errorf("Data() changed after Fill(%v) (-want +got):\n%s", values, diff)
		}
	}

	first := tmpl.Fill(map[string]any{"email": "a"})
	second := tmpl.Fill(map[string]any{"email": "a"})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Fill() is not idempotent (-first +second):\n%s", diff)
	}
}

func TestFormGet(t *testing.T) {
	form := newAccountTemplate().Fill(map[string]any{"email": "x"})
	if v, ok := form.Get("email"); !ok || v != "x" {
		t.Errorf("Get(email) = %v, %v", v, ok)
	}
	if _, ok := form.Get("missing"); ok {
		t.Errorf("Get(missing) reported a value")
	}
}
