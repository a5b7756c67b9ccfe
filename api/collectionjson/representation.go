package collectionjson

import (
	"net/http"
	"net/url"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// Action is a typed operation attached to a representation, performed
// against the href of one of its links.
type Action struct {
	Name   string
	Method string
	// Rel names the link whose href is the target
	Rel   string
	Query url.Values
	Body  map[string]any
}

// Decoration is a set of affordances derived from a response after parsing.
type Decoration struct {
	Links     []Link
	LinkSets  map[string][]Link
	Templates []*Template
	Actions   []Action
}

// Representation is an immutable view over one fetched document.
type Representation struct {
	doc        Document
	collection map[string]any

	links     []Link
	rels      map[string]int
	linkSets  map[string][]Link
	templates []*Template
	actions   []Action
	names     map[string]int
}

// New builds a representation of doc. Declared collection links come first;
// decorations are applied in order and a repeated relation replaces the
// earlier href.
func New(doc Document, decorations ...Decoration) *Representation {
	if doc.Body == nil {
		doc.Body = map[string]any{}
	}
	collection, _ := doc.Body["collection"].(map[string]any)
	r := &Representation{
		doc:        doc,
		collection: collection,
		rels:       map[string]int{},
		linkSets:   map[string][]Link{},
		names:      map[string]int{},
	}

	r.addLinks(parseLinks(collection["links"]))
	if t, ok := collection["template"].(map[string]any); ok {
		r.templates = append(r.templates, ParseTemplate(t))
	}

	for _, d := range decorations {
		r.addLinks(d.Links)
		for rel, set := range d.LinkSets {
			r.linkSets[rel] = append(r.linkSets[rel], set...)
		}
		r.templates = append(r.templates, d.Templates...)
		r.addActions(d.Actions)
	}
	return r
}

func (r *Representation) addLinks(links []Link) {
	for _, l := range links {
		if i, ok := r.rels[l.Rel]; ok {
			r.links[i] = l
			continue
		}
		r.rels[l.Rel] = len(r.links)
		r.links = append(r.links, l)
	}
}

func (r *Representation) addActions(actions []Action) {
	for _, a := range actions {
		if i, ok := r.names[a.Name]; ok {
			r.actions[i] = a
			continue
		}
		r.names[a.Name] = len(r.actions)
		r.actions = append(r.actions, a)
	}
}

// Document returns the document the representation was built from.
func (r *Representation) Document() Document {
	return r.doc
}

// Body returns the parsed response body.
func (r *Representation) Body() map[string]any {
	return r.doc.Body
}

// Status returns the HTTP status code of the response.
func (r *Representation) Status() int {
	return r.doc.Status
}

// Header returns the response headers.
func (r *Representation) Header() http.Header {
	return r.doc.Header
}

// URL returns the URL the representation was fetched from.
func (r *Representation) URL() *url.URL {
	return r.doc.URL
}

// Path returns the request path.
func (r *Representation) Path() string {
	return r.doc.Path()
}

// ContentType returns the response media type.
func (r *Representation) ContentType() string {
	return r.doc.ContentType()
}

// IsCollection reports whether the body has a `collection` object.
func (r *Representation) IsCollection() bool {
	return r.collection != nil
}

// Authorized is false only when the server answered 401.
func (r *Representation) Authorized() bool {
	return r.doc.Status != http.StatusUnauthorized
}

// Href returns `collection.href`.
func (r *Representation) Href() string {
	href, _ := r.collection["href"].(string)
	return href
}

// CollectionLinks returns every link in declaration order.
func (r *Representation) CollectionLinks() []Link {
	return append([]Link{}, r.links...)
}

// LookupLink returns the link with the given relation.
func (r *Representation) LookupLink(rel string) (Link, bool) {
	i, ok := r.rels[rel]
	if !ok {
		return Link{}, false
	}
	return r.links[i], true
}

// Link returns the link with the given relation or fails with
// ErrLinkNotFound.
func (r *Representation) Link(rel string) (Link, error) {
	if l, ok := r.LookupLink(rel); ok {
		return l, nil
	}
	return Link{}, failure.New(ErrLinkNotFound,
		failure.Message("The server did not provide the expected link"),
		failure.Context{
			"rel":  rel,
			"path": r.Path(),
		},
	)
}

// LinkOr returns the link with the given relation, or the result of
// fallback when it is absent.
func (r *Representation) LinkOr(rel string, fallback func() Link) Link {
	if l, ok := r.LookupLink(rel); ok {
		return l
	}
	return fallback()
}

// LinkSet returns the multi-valued links registered under rel.
func (r *Representation) LinkSet(rel string) []Link {
	return r.linkSets[rel]
}

// Items returns the embedded items. Bodies without a collection fall back to
// a top-level `items` array.
func (r *Representation) Items() []Item {
	raw, ok := r.collection["items"].([]any)
	if !ok {
		raw, _ = r.doc.Body["items"].([]any)
	}
	return lo.FilterMap(raw, func(v any, _ int) (Item, bool) {
		obj, ok := v.(map[string]any)
		if !ok {
			return Item{}, false
		}
		return ParseItem(obj), true
	})
}

// ItemsOf maps every embedded item through factory.
func ItemsOf[T any](r *Representation, factory func(Item) T) []T {
	return lo.Map(r.Items(), func(item Item, _ int) T { return factory(item) })
}

// Template returns the collection template, or nil.
func (r *Representation) Template() *Template {
	if len(r.templates) == 0 {
		return nil
	}
	return r.templates[0]
}

// TemplateFor returns the template declared for rel, or nil.
func (r *Representation) TemplateFor(rel string) *Template {
	t, _ := lo.Find(r.templates, func(t *Template) bool { return t.Rel() == rel })
	return t
}

// Queries returns the declared queries, or nil when the document has none.
func (r *Representation) Queries() []Query {
	raw, ok := r.collection["queries"].([]any)
	if !ok {
		return nil
	}
	return lo.FilterMap(raw, func(v any, _ int) (Query, bool) {
		obj, ok := v.(map[string]any)
		if !ok {
			return Query{}, false
		}
		return ParseQuery(obj), true
	})
}

// QueriesOf maps every declared query through factory. It returns nil when
// the document has no queries.
func QueriesOf[T any](r *Representation, factory func(Query) T) []T {
	queries := r.Queries()
	if queries == nil {
		return nil
	}
	return lo.Map(queries, func(q Query, _ int) T { return factory(q) })
}

// Query returns the first query with the given relation.
func (r *Representation) Query(rel string) (Query, bool) {
	return lo.Find(r.Queries(), func(q Query) bool { return q.Rel == rel })
}

// Action returns the named decorated action.
func (r *Representation) Action(name string) (Action, bool) {
	i, ok := r.names[name]
	if !ok {
		return Action{}, false
	}
	return r.actions[i], true
}

// Actions returns the names of all decorated actions in declaration order.
func (r *Representation) Actions() []string {
	return lo.Map(r.actions, func(a Action, _ int) string { return a.Name })
}
