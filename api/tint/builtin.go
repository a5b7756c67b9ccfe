package tint

import (
	"net/http"
	"regexp"

	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/samber/lo"
)

const (
	// RootDropsHref is the drops list the root advertises when the server
	// omits it.
	RootDropsHref = "/items?api_version=1.2"
	// RootTrashHref is the trashed drops list the root advertises when the
	// server omits it.
	RootTrashHref = "/items?api_version=1.2&deleted=true"
	// CreateFileHref is the upload request form of the drops list.
	CreateFileHref = "/items/new"
)

var dropPath = regexp.MustCompile(`^/items/[^/]+$`)

// Default returns the tints applied to every response, in order.
func Default() Pipeline {
	return Pipeline{
		Links(),
		Root(),
		Create(),
		Drops(),
		Drop(),
		Upload(),
	}
}

// Links exposes a top-level `links` object as relations.
//
//	{ "links": { "self": "...", "next": "...", "prev": "..." } }
func Links() Tint {
	return Tint{
		Name:  "links",
		Match: HasKey("links"),
		Decorate: func(rep *collectionjson.Representation) collectionjson.Decoration {
			return collectionjson.Decoration{Links: bodyLinks(rep.Document().Raw)}
		},
	}
}

// Root gives the API root default drops and trash relations.
func Root() Tint {
	return Tint{
		Name:  "root",
		Match: MatchPath("/"),
		Decorate: func(rep *collectionjson.Representation) collectionjson.Decoration {
			defaults := []collectionjson.Link{
				{Rel: "drops", Href: RootDropsHref, Title: "List owned drops"},
				{Rel: "trash", Href: RootTrashHref, Title: "List owned, trashed drops"},
			}
			return collectionjson.Decoration{
				Links: lo.Filter(defaults, func(l collectionjson.Link, _ int) bool {
					_, ok := rep.LookupLink(l.Rel)
					return !ok
				}),
			}
		},
	}
}

// Create adds the file upload relation to the drops list and, when the
// server declares no template, derives the bookmark form the list accepts.
func Create() Tint {
	return Tint{
		Name:  "create",
		Match: MatchPath("/items"),
		Decorate: func(rep *collectionjson.Representation) collectionjson.Decoration {
			d := collectionjson.Decoration{
				Links: []collectionjson.Link{
					{Rel: "create_file", Href: CreateFileHref, Title: "Create a new file drop"},
				},
			}
			if rep.Template() == nil {
				d.Templates = []*collectionjson.Template{
					collectionjson.NewTemplate("item", "",
						collectionjson.Field{Name: "name", Value: ""},
						collectionjson.Field{Name: "redirect_url", Value: ""},
					),
				}
			}
			return d
		},
	}
}

// Drops adds a `child` link for each item in the drops list.
//
//	{ "items": [{ "id": 123, "href": "..." }] }
func Drops() Tint {
	return Tint{
		Name:  "drops",
		Match: All(MatchPath("/items"), HasKey("items")),
		Decorate: func(rep *collectionjson.Representation) collectionjson.Decoration {
			children := lo.FilterMap(rep.Items(), func(item collectionjson.Item, _ int) (collectionjson.Link, bool) {
				if item.Href == "" {
					return collectionjson.Link{}, false
				}
				id, _ := item.Value("id")
				return collectionjson.Link{Rel: "child", Href: item.Href, Title: titleOf(id)}, true
			})
			return collectionjson.Decoration{
				LinkSets: map[string][]collectionjson.Link{"child": children},
			}
		},
	}
}

// Drop attaches destroy and restore actions to a single drop. Both act on
// the `self` relation, which is the request URL when the body declares none.
func Drop() Tint {
	return Tint{
		Name: "drop",
		Match: All(MatchPattern(dropPath), func(rep *collectionjson.Representation) bool {
			return rep.Path() != CreateFileHref
		}),
		Decorate: func(rep *collectionjson.Representation) collectionjson.Decoration {
			return collectionjson.Decoration{
				Actions: []collectionjson.Action{
					{
						Name:   "destroy",
						Method: http.MethodDelete,
						Rel:    "self",
					},
					{
						Name:   "restore",
						Method: http.MethodPut,
						Rel:    "self",
						Body: map[string]any{
							"deleted": true,
							"item":    map[string]any{"deleted_at": nil},
						},
					},
				},
			}
		},
	}
}

// Upload turns the legacy upload request into an upload form. The server
// answers `/items/new` with the storage URL and the fields it must receive:
//
//	{ "url": "https://storage/", "params": { "key": "...", "policy": "..." } }
//
// The form posts those fields, in order, followed by the file.
func Upload() Tint {
	return Tint{
		Name:  "upload",
		Match: All(MatchPath(CreateFileHref), HasKey("url"), HasKey("params")),
		Decorate: func(rep *collectionjson.Representation) collectionjson.Decoration {
			href, _ := rep.Body()["url"].(string)
			fields := orderedObject(rep.Document().Raw, "params")
			fields = append(fields, collectionjson.Field{Name: "file"})
			return collectionjson.Decoration{
				Links: []collectionjson.Link{{Rel: "upload", Href: href, Title: "Upload the file"}},
				Templates: []*collectionjson.Template{
					collectionjson.NewTemplate("", collectionjson.EnctypeMultipart, fields...),
				},
			}
		},
	}
}
