package collectionjson

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"

	"github.com/morikuni/failure/v2"
)

// MediaType is the Collection+JSON content type.
const MediaType = "application/vnd.collection+json"

// Meta is the response metadata a representation was built from.
type Meta struct {
	Status int
	Header http.Header
	// URL is the URL the response was fetched from
	URL *url.URL
}

// Document is a parsed response body together with its metadata.
type Document struct {
	Meta
	Raw  []byte
	Body map[string]any
}

// DecodeFunc turns a response body into a JSON object.
type DecodeFunc func(raw []byte) (map[string]any, error)

// DecodeJSON decodes raw as a JSON object. An empty body decodes to an empty
// object.
func DecodeJSON(raw []byte) (map[string]any, error) {
	body := map[string]any{}
	if len(raw) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, failure.Translate(err, ErrInvalidDocument,
			failure.Message("Response body is not a JSON object"),
		)
	}
	return body, nil
}

// ContentType returns the media type of the response without parameters.
func (m Meta) ContentType() string {
	if m.Header == nil {
		return ""
	}
	mt, _, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// Path returns the path of the request URL.
func (m Meta) Path() string {
	if m.URL == nil {
		return ""
	}
	if m.URL.Path == "" {
		return "/"
	}
	return m.URL.Path
}
