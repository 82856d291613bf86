package mautic

import (
	"net/http"
	"strings"
	"time"

	httpclient "github.com/natserract/mautic/pkg/http"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Session is an authenticated connection to a Mautic instance. BaseAPI only
// depends on this interface, so either auth mode can back any resource.
type Session interface {
	// BaseURL is the instance root without surrounding spaces or slashes.
	BaseURL() string

	// Transport issues requests with the session's credentials attached.
	Transport() *httpclient.Client
}

// TokenUpdater receives every token the session obtains on its own, so the
// caller can persist it. It is never called concurrently with itself.
type TokenUpdater func(token *oauth2.Token)

type options struct {
	logger     *zap.Logger
	httpClient *http.Client
	maxRetries int
	timeout    time.Duration

	// OAuth2 only.
	clientSecret string
	scopes       []string
	token        *oauth2.Token
	tokenUpdater TokenUpdater
}

// Option configures a session. OAuth2-specific options are ignored by
// NewBasicAuthSession.
type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHTTPClient sets the client whose transport and timeout the session
// builds on. It is also used for OAuth2 token requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithMaxRetries retries requests that fail at the transport level.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

func WithClientSecret(secret string) Option {
	return func(o *options) {
		o.clientSecret = secret
	}
}

// WithScope accepts a comma separated scope list.
func WithScope(scope string) Option {
	return func(o *options) {
		o.scopes = nil
		for _, s := range strings.Split(scope, ",") {
			if s = strings.TrimSpace(s); s != "" {
				o.scopes = append(o.scopes, s)
			}
		}
	}
}

func WithScopes(scopes []string) Option {
	return func(o *options) {
		o.scopes = append([]string(nil), scopes...)
	}
}

// WithToken seeds the session with a previously obtained token.
func WithToken(token *oauth2.Token) Option {
	return func(o *options) {
		o.token = token
	}
}

func WithTokenUpdater(updater TokenUpdater) Option {
	return func(o *options) {
		o.tokenUpdater = updater
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// baseHTTPClient returns a copy of the configured client so wrapping its
// transport never mutates the caller's value.
func (o *options) baseHTTPClient() *http.Client {
	hc := &http.Client{Timeout: 30 * time.Second}
	if o.httpClient != nil {
		copied := *o.httpClient
		hc = &copied
	}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}
	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}
	return hc
}

func (o *options) transport(hc *http.Client) *httpclient.Client {
	return httpclient.NewClient(
		httpclient.WithHTTPClient(hc),
		httpclient.WithLogger(o.logger),
		httpclient.WithMaxRetries(o.maxRetries),
	)
}

func normalizeBaseURL(baseURL string) string {
	return strings.Trim(baseURL, " /")
}
