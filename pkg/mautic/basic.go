package mautic

import (
	"net/http"

	httpclient "github.com/natserract/mautic/pkg/http"
)

// BasicAuthSession authenticates every request with static HTTP basic
// credentials.
type BasicAuthSession struct {
	baseURL   string
	username  string
	transport *httpclient.Client
}

var _ Session = (*BasicAuthSession)(nil)

func NewBasicAuthSession(baseURL, username, password string, opts ...Option) *BasicAuthSession {
	o := newOptions(opts)

	hc := o.baseHTTPClient()
	hc.Transport = &basicAuthTransport{
		base:     hc.Transport,
		username: username,
		password: password,
	}

	return &BasicAuthSession{
		baseURL:   normalizeBaseURL(baseURL),
		username:  username,
		transport: o.transport(hc),
	}
}

func (s *BasicAuthSession) BaseURL() string {
	return s.baseURL
}

func (s *BasicAuthSession) Transport() *httpclient.Client {
	return s.transport
}

func (s *BasicAuthSession) Username() string {
	return s.username
}

type basicAuthTransport struct {
	base     http.RoundTripper
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(cloned)
}
