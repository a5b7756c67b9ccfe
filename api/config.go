package api

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/ka2n/cloudapp/api/tint"
	"github.com/ka2n/cloudapp/api/transport"
	"github.com/morikuni/failure/v2"
)

const (
	// DefaultBaseURL is the API root of the hosted service
	DefaultBaseURL = "https://api.getcloudapp.com"
	// DefaultMaxHops bounds the number of "drops" links followed while
	// looking for the drops collection
	DefaultMaxHops = 10
)

var validate = validator.New()

// Config configures a Service. Zero values select the defaults.
type Config struct {
	// BaseURL is the API root relative hrefs are resolved against
	BaseURL string `validate:"required,url"`
	// Auth is used to build the default client when Client is nil
	Auth transport.Auth `validate:"-"`
	// Client performs the HTTP calls
	Client transport.Client `validate:"-"`
	// Decoders maps response media types to body decoders
	Decoders map[string]collectionjson.DecodeFunc `validate:"-"`
	// Tints decorate every parsed response, in order
	Tints tint.Pipeline `validate:"-"`
	// MaxHops bounds collection discovery
	MaxHops int `validate:"gte=0"`
}

// DefaultDecoders returns the decoders for Collection+JSON and plain JSON.
func DefaultDecoders() map[string]collectionjson.DecodeFunc {
	return map[string]collectionjson.DecodeFunc{
		collectionjson.MediaType: collectionjson.DecodeJSON,
		"application/json":       collectionjson.DecodeJSON,
	}
}

func (c Config) withDefaults() (Config, error) {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if err := validate.Struct(c); err != nil {
		return c, failure.Translate(err, ErrInvalidConfig,
			failure.Message("Invalid service configuration"),
			failure.Context{"base_url": c.BaseURL},
		)
	}
	if c.Client == nil {
		var opts []transport.Option
		if c.Auth != nil {
			opts = append(opts, transport.WithAuth(c.Auth))
		}
		client, err := transport.NewHTTPClient(c.BaseURL, opts...)
		if err != nil {
			return c, err
		}
		c.Client = client
	}
	if c.Decoders == nil {
		c.Decoders = DefaultDecoders()
	}
	if c.Tints == nil {
		c.Tints = tint.Default()
	}
	if c.MaxHops == 0 {
		c.MaxHops = DefaultMaxHops
	}
	return c, nil
}

func (c Config) baseURL() *url.URL {
	u, _ := url.Parse(c.BaseURL)
	return u
}
