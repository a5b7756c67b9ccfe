package cli

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/ka2n/cloudapp/api"
	"github.com/ka2n/cloudapp/api/transport"
	"github.com/ka2n/cloudapp/credential"
	"github.com/ka2n/cloudapp/log"
	"github.com/morikuni/failure/v2"
)

var validate = validator.New()

// Config is the resolved CLI configuration
type Config struct {
	BaseURL  string `validate:"required,url"`
	Token    string
	Email    string `validate:"omitempty,email"`
	Password string
	Debug    bool
}

// loadDotenv loads .env and .env.local from the working directory. Variables
// already set in the environment win.
func loadDotenv() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			log.Warn("Failed to load env file", "file", name, "error", err)
		}
	}
}

// loadConfig merges flags over the environment. lookup is os.LookupEnv
// outside tests.
func loadConfig(lookup func(string) (string, bool), flags Config) (Config, error) {
	cfg := Config{BaseURL: api.DefaultBaseURL}
	if v, ok := lookup("CLOUDAPP_BASE_URL"); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := lookup("CLOUDAPP_TOKEN"); ok {
		cfg.Token = v
	}
	if v, ok := lookup("CLOUDAPP_EMAIL"); ok {
		cfg.Email = v
	}
	if v, ok := lookup("CLOUDAPP_PASSWORD"); ok {
		cfg.Password = v
	}
	if _, ok := lookup("CLOUDAPP_DEBUG"); ok {
		cfg.Debug = true
	}

	if flags.BaseURL != "" {
		cfg.BaseURL = flags.BaseURL
	}
	if flags.Token != "" {
		cfg.Token = flags.Token
	}
	cfg.Debug = cfg.Debug || flags.Debug

	if err := validate.Struct(cfg); err != nil {
		return cfg, failure.Translate(err, InvalidConfig,
			failure.Message(fmt.Sprintf("Invalid configuration: %v", err)),
		)
	}
	return cfg, nil
}

// auth picks the credentials requests are sent with: an explicit token, then
// account credentials, then the token stored by `cloudapp login`.
func (c Config) auth(store *credential.Store) transport.Auth {
	switch {
	case c.Token != "":
		return transport.TokenAuth{Token: c.Token}
	case c.Email != "":
		return transport.BasicAuth{Username: c.Email, Password: c.Password}
	}
	entry, err := store.Load(c.BaseURL)
	if err != nil {
		log.Debug("No stored token", "base_url", c.BaseURL, "error", err)
		return nil
	}
	return transport.TokenAuth{Token: entry.Token}
}
