package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/morikuni/failure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMergesQuery(t *testing.T) {
	c, err := NewHTTPClient("https://api.example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		href  string
		query url.Values
		want  string
	}{
		{
			name: "relative href",
			href: "/items",
			want: "https://api.example.com/items",
		},
		{
			name:  "keeps href query",
			href:  "/items?api_version=1.2",
			query: url.Values{"filter": {"trash"}},
			want:  "https://api.example.com/items?api_version=1.2&filter=trash",
		},
		{
			name: "absolute href",
			href: "https://uploads.example.com/bucket",
			want: "https://uploads.example.com/bucket",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := c.Resolve(tt.href, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestNewHTTPClientRejectsRelativeBase(t *testing.T) {
	_, err := NewHTTPClient("/relative")
	assert.True(t, failure.Is(err, ErrInvalidURL), "error = %v", err)
}

func TestAuthOnlyForAPIHost(t *testing.T) {
	var storageAuth string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storageAuth = r.Header.Get("Authorization")
	}))
	defer storage.Close()

	var apiAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiAuth = r.Header.Get("Authorization")
	}))
	defer api.Close()

	c, err := NewHTTPClient(api.URL, WithAuth(TokenAuth{Token: "abc"}))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/"})
	require.NoError(t, err)
	_, err = c.Do(context.Background(), &Request{Method: http.MethodPost, URL: storage.URL + "/bucket"})
	require.NoError(t, err)

	assert.Equal(t, `Token token="abc"`, apiAuth)
	assert.Empty(t, storageAuth)
}

func TestBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "arthur@dent.com" || pass != "towel" {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, WithAuth(BasicAuth{Username: "arthur@dent.com", Password: "towel"}))
	require.NoError(t, err)
	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestJSONBody(t *testing.T) {
	var got map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)
	resp, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    "/items",
		Body:   map[string]any{"item": map[string]any{"name": "X"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]any{"item": map[string]any{"name": "X"}}, got)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestRedirectPolicy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/done?key=abc")
		w.WriteHeader(http.StatusSeeOther)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/done", http.StatusFound)
	})
	mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "done")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodPost, URL: "/upload"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.Status)
	loc, ok := resp.Location()
	require.True(t, ok)
	assert.Equal(t, srv.URL+"/done?key=abc", loc.String())

	resp, err = c.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/moved"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "/done", resp.URL.Path)
}

func TestMultipartBody(t *testing.T) {
	type received struct {
		length int64
		fields map[string]string
		file   string
		name   string
		ctype  string
	}
	var got received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.length = r.ContentLength
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got.fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got.fields[k] = v[0]
		}
		f, h, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		got.file = string(b)
		got.name = h.Filename
		got.ctype = h.Header.Get("Content-Type")
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)

	content := "0123456789"
	resp, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    "/bucket",
		Parts: []Part{
			{Name: "key", Value: "uploads/${filename}"},
			{Name: "acl", Value: nil},
			{Name: "file", Value: FilePart{
				Filename:    "screenshot.png",
				ContentType: "image/png",
				Size:        int64(len(content)),
				Reader:      strings.NewReader(content),
			}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)

	assert.Greater(t, got.length, int64(len(content)))
	assert.Equal(t, map[string]string{"key": "uploads/${filename}", "acl": ""}, got.fields)
	assert.Equal(t, content, got.file)
	assert.Equal(t, "screenshot.png", got.name)
	assert.Equal(t, "image/png", got.ctype)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := NewHTTPClient(base)
	require.NoError(t, err)
	_, err = c.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/"})
	require.Error(t, err)
	assert.True(t, failure.Is(err, ErrTransport), "error = %v", err)
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Do(ctx, &Request{Method: http.MethodGet, URL: "/"})
	require.Error(t, err)
	assert.True(t, failure.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, context.Canceled), "error = %v", err)
}

func TestRequestID(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("X-Request-Id"))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), &Request{Method: http.MethodGet, URL: "/"})
	require.NoError(t, err)
	_, err = c.Do(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    "/",
		Header: http.Header{"X-Request-Id": {"fixed"}},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Len(t, got[0], 36)
	assert.Equal(t, "fixed", got[1])
}
