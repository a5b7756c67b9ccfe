package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ka2n/cloudapp/api"
)

func TestPresentDrop(t *testing.T) {
	tests := []struct {
		name string
		drop api.Drop
		want string
	}{
		{
			name: "private drop",
			drop: api.Drop{
				Name:        "Drop",
				Private:     true,
				Href:        "http://href",
				ShareURL:    "http://share",
				EmbedURL:    "http://embed",
				DownloadURL: "http://download",
			},
			want: `Details
  Name:     Drop
  Views:    0
  Privacy:  Private

Links
  Share:    http://share
  Embed:    http://embed
  Download: http://download
  Href:     http://href`,
		},
		{
			name: "public trashed drop",
			drop: api.Drop{
				Name:     "Screenshot",
				Views:    12,
				Trashed:  true,
				Href:     "/drops/1",
				ShareURL: "http://cl.ly/1",
			},
			want: `Details
  Name:     Screenshot
  Views:    12
  Privacy:  Not Private
  Status:   Trashed

Links
  Share:    http://cl.ly/1
  Embed:    
  Download: 
  Href:     /drops/1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPresenter(&bytes.Buffer{})
			if diff := cmp.Diff(tt.want, p.Drop(tt.drop)); diff != "" {
				t.Errorf("Drop() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPresentList(t *testing.T) {
	p := newPresenter(&bytes.Buffer{})
	got := p.List([]api.Drop{
		{ID: "7", Name: "Bookmark", ShareURL: "http://cl.ly/7"},
		{ID: "123", Name: "Old", ShareURL: "http://cl.ly/123", Trashed: true},
	})
	want := "7    Bookmark  http://cl.ly/7\n123  Old (trashed)  http://cl.ly/123"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if got := p.List(nil); got != "No drops" {
		t.Errorf("List(nil) = %q", got)
	}
}
