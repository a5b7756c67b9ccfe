package api

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/mitchellh/mapstructure"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// Drop is a bookmark or file stored in the account.
type Drop struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Private     bool   `mapstructure:"private"`
	Views       int    `mapstructure:"view_counter"`
	ShareURL    string `mapstructure:"share_url"`
	EmbedURL    string `mapstructure:"embed_url"`
	DownloadURL string `mapstructure:"download_url"`
	Trashed     bool   `mapstructure:"trash"`

	// CreatedAt is zero when the server omits created_at or sends a
	// format dateparse cannot read.
	CreatedAt time.Time `mapstructure:"-"`

	// Href is the drop's own URL. Lifecycle operations use it rather than ID.
	Href string `mapstructure:"-"`
	// Data is the item data as the server sent it
	Data map[string]any `mapstructure:"-"`
}

// linkFields maps item relations to the drop URLs they carry.
var linkFields = map[string]func(d *Drop) *string{
	"canonical": func(d *Drop) *string { return &d.ShareURL },
	"embed":     func(d *Drop) *string { return &d.EmbedURL },
	"download":  func(d *Drop) *string { return &d.DownloadURL },
}

// NewDrop decodes a collection item into a Drop.
func NewDrop(item collectionjson.Item) (Drop, error) {
	data := item.DataMap()
	drop := Drop{
		Href: item.Href,
		Data: data,
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &drop,
	})
	if err != nil {
		return Drop{}, failure.Wrap(err)
	}
	if err := dec.Decode(data); err != nil {
		return Drop{}, failure.Translate(err, ErrNoDrop,
			failure.Message("The server sent a drop this client cannot read"),
			failure.Context{"href": item.Href},
		)
	}

	if v, ok := data["created_at"].(string); ok {
		if t, err := dateparse.ParseAny(v); err == nil {
			drop.CreatedAt = t
		}
	}

	for rel, field := range linkFields {
		if l, ok := item.Link(rel); ok {
			*field(&drop) = l.Href
		}
	}
	return drop, nil
}

// DropCollection is a resolved list of drops, or a single drop.
type DropCollection struct {
	rep   *collectionjson.Representation
	drops []Drop
}

// NewDropCollection reads the drops of rep. A body that is neither a
// collection nor a list is read as a single drop.
func NewDropCollection(rep *collectionjson.Representation) (*DropCollection, error) {
	items := rep.Items()
	if len(items) == 0 && !rep.IsCollection() && isRecord(rep.Body()) {
		items = []collectionjson.Item{collectionjson.ParseItem(rep.Body())}
	}

	drops := make([]Drop, 0, len(items))
	for _, item := range items {
		d, err := NewDrop(item)
		if err != nil {
			return nil, err
		}
		drops = append(drops, d)
	}
	return &DropCollection{rep: rep, drops: drops}, nil
}

func isRecord(body map[string]any) bool {
	if _, ok := body["items"]; ok {
		return false
	}
	return lo.HasKey(body, "href") || lo.HasKey(body, "id")
}

// Drops returns the drops in server order.
func (c *DropCollection) Drops() []Drop {
	return c.drops
}

// First returns the first drop.
func (c *DropCollection) First() (Drop, bool) {
	return lo.First(c.drops)
}

// Link returns the href of a relation such as "next" or "previous".
func (c *DropCollection) Link(rel string) (string, bool) {
	l, ok := c.rep.LookupLink(rel)
	return l.Href, ok
}

// Representation returns the representation the collection was read from.
func (c *DropCollection) Representation() *collectionjson.Representation {
	return c.rep
}
