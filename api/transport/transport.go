// Package transport is the HTTP capability the drop service talks through.
//
// The transport package provides:
// - Client, the interface the service depends on
// - HTTPClient, the default implementation over net/http
// - basic and token authentication scoped to the API host
// - JSON and multipart request bodies
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// ErrorCode defines error types for transport operations
type ErrorCode string

const (
	// ErrTransport represents a network or connection failure
	ErrTransport ErrorCode = "TransportError"
	// ErrEncode represents a request body that could not be encoded
	ErrEncode ErrorCode = "EncodeError"
	// ErrInvalidURL represents an href that cannot be resolved
	ErrInvalidURL ErrorCode = "InvalidURL"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// Client performs a single HTTP exchange.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request describes one HTTP call. URL may be relative to the client's base
// URL. Query values are merged into the URL's own query.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header

	// Body is sent as JSON when set
	Body any
	// Parts are sent as multipart/form-data when set, in order
	Parts []Part
}

// Part is one multipart field. A FilePart value is sent as a file.
type Part struct {
	Name  string
	Value any
}

// FilePart is a file field of a multipart body. The transport reads from
// Reader but never closes it.
type FilePart struct {
	Filename    string
	ContentType string
	// Size is the number of bytes Reader yields, or -1 when unknown
	Size   int64
	Reader io.Reader
}

// Response is a completed HTTP exchange with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	// URL is the URL the response was served from, after redirects
	URL *url.URL
}

// Location returns the Location header resolved against the response URL.
func (r *Response) Location() (*url.URL, bool) {
	loc := r.Header.Get("Location")
	if loc == "" {
		return nil, false
	}
	u, err := url.Parse(loc)
	if err != nil {
		return nil, false
	}
	if r.URL != nil {
		u = r.URL.ResolveReference(u)
	}
	return u, true
}
