package transport

import (
	"fmt"
	"net/http"
)

// Auth decorates outgoing API requests with credentials.
type Auth interface {
	Apply(req *http.Request)
}

// BasicAuth authenticates with an account email and password.
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// TokenAuth authenticates with an account token.
type TokenAuth struct {
	Token string
}

func (a TokenAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Token token=%q", a.Token))
}
