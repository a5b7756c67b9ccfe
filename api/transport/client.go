package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/ka2n/cloudapp/log"
	"github.com/morikuni/failure/v2"
)

const (
	// DefaultTimeout bounds a single exchange including the body transfer
	DefaultTimeout = 5 * time.Minute

	accept    = "application/vnd.collection+json, application/json;q=0.9"
	requestID = "X-Request-Id"
	maxHops   = 10
	userAgent = "cloudapp-go"
)

// HTTPClient is the default Client over net/http.
//
// Credentials are only sent to the API host; uploads to a storage host
// that the API hands out go without them. GET requests follow redirects,
// other methods return the redirect response so callers can read Location.
type HTTPClient struct {
	base      *url.URL
	client    *http.Client
	auth      Auth
	userAgent string
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithAuth sets the credentials sent to the API host.
func WithAuth(auth Auth) Option {
	return func(c *HTTPClient) {
		c.auth = auth
	}
}

// WithHTTPClient replaces the underlying http.Client. Its redirect policy is
// replaced.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// NewHTTPClient creates a client resolving relative hrefs against baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, failure.New(ErrInvalidURL,
			failure.Message("Base URL must be absolute"),
			failure.Context{"url": baseURL},
		)
	}

	c := &HTTPClient{
		base: base,
		client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: log.Transport(http.DefaultTransport),
		},
		userAgent: userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	client := *c.client
	client.CheckRedirect = checkRedirect
	c.client = &client
	return c, nil
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if via[0].Method != http.MethodGet {
		return http.ErrUseLastResponse
	}
	if len(via) >= maxHops {
		return errors.New("stopped after 10 redirects")
	}
	return nil
}

// BaseURL returns the URL relative hrefs are resolved against.
func (c *HTTPClient) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Resolve turns href into an absolute URL and merges query into it.
func (c *HTTPClient) Resolve(href string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, failure.Translate(err, ErrInvalidURL,
			failure.Context{"href": href},
		)
	}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// Do performs req and reads the full response body.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	u, err := c.Resolve(req.URL, req.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, length, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, failure.Translate(err, ErrTransport,
			failure.Context{"method": req.Method, "url": u.String()},
		)
	}
	if body != nil {
		httpReq.ContentLength = length
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", accept)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	if httpReq.Header.Get(requestID) == "" {
		httpReq.Header.Set(requestID, uuid.New().String())
	}
	if c.auth != nil && u.Host == c.base.Host {
		c.auth.Apply(httpReq)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, failure.Translate(err, ErrTransport,
			failure.Message("Failed to reach the server"),
			failure.Context{"method": req.Method, "url": u.String()},
		)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failure.Translate(err, ErrTransport,
			failure.Message("Failed to read the response"),
			failure.Context{"method": req.Method, "url": u.String()},
		)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
		URL:    resp.Request.URL,
	}, nil
}

func encodeBody(req *Request) (io.Reader, string, int64, error) {
	switch {
	case req.Parts != nil:
		return encodeMultipart(req.Parts)
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", 0, failure.Translate(err, ErrEncode,
				failure.Message("Failed to encode the request body"),
			)
		}
		return bytes.NewReader(b), "application/json", int64(len(b)), nil
	default:
		return nil, "", 0, nil
	}
}
