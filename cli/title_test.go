package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morikuni/failure/v2"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Hello World</title></head>
<body>
<article>
<h1>Hello World</h1>
<p>CloudApp lets you share screenshots, recordings and files with a short link.
Drops can be public or private, and every drop keeps a count of its views.</p>
<p>Bookmarks are drops too. They redirect visitors to the page they point at,
and they can be renamed, trashed and recovered just like files.</p>
</article>
</body>
</html>`

func TestPageTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, articlePage)
		case "/untitled":
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, `<html><body></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "article", path: "/article", want: "Hello World"},
		{name: "no title", path: "/untitled", wantErr: true},
		{name: "not found", path: "/missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pageTitle(context.Background(), srv.Client(), srv.URL+tt.path)
			if tt.wantErr {
				if !failure.Is(err, TitleUnavailable) {
					t.Errorf("pageTitle() error = %v, want TitleUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pageTitle() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("pageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
