package mautic

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	httpclient "github.com/natserract/mautic/pkg/http"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	tokenPath         = "/oauth/v2/token"
	authorizationPath = "/oauth/v2/authorize"
)

// RefreshConfig holds what the session needs to renew an expired access token.
type RefreshConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// OAuth2Session authenticates requests with a bearer token. Auto-refresh is
// enabled only when both a client secret and a token updater are supplied.
type OAuth2Session struct {
	baseURL   string
	config    *oauth2.Config
	refresh   *RefreshConfig
	source    *tokenCache
	baseHTTP  *http.Client
	transport *httpclient.Client
	logger    *zap.Logger
}

var _ Session = (*OAuth2Session)(nil)

func NewOAuth2Session(baseURL, clientID string, opts ...Option) *OAuth2Session {
	o := newOptions(opts)
	baseURL = normalizeBaseURL(baseURL)

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: o.clientSecret,
		Scopes:       o.scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   baseURL + authorizationPath,
			TokenURL:  baseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	var refresh *RefreshConfig
	if o.clientSecret != "" && o.tokenUpdater != nil {
		refresh = &RefreshConfig{
			TokenURL:     config.Endpoint.TokenURL,
			ClientID:     clientID,
			ClientSecret: o.clientSecret,
		}
	}

	baseHTTP := o.baseHTTPClient()
	s := &OAuth2Session{
		baseURL:  baseURL,
		config:   config,
		refresh:  refresh,
		baseHTTP: baseHTTP,
		logger:   o.logger,
	}
	s.source = &tokenCache{
		token:   o.token,
		updater: o.tokenUpdater,
		session: s,
	}

	hc := *baseHTTP
	hc.Transport = &oauth2.Transport{
		Source: s.source,
		Base:   baseHTTP.Transport,
	}
	s.transport = o.transport(&hc)

	return s
}

func (s *OAuth2Session) BaseURL() string {
	return s.baseURL
}

func (s *OAuth2Session) Transport() *httpclient.Client {
	return s.transport
}

func (s *OAuth2Session) TokenURL() string {
	return s.config.Endpoint.TokenURL
}

func (s *OAuth2Session) AuthorizationURL() string {
	return s.config.Endpoint.AuthURL
}

func (s *OAuth2Session) Scopes() []string {
	return append([]string(nil), s.config.Scopes...)
}

// RefreshConfig returns nil when auto-refresh is disabled.
func (s *OAuth2Session) RefreshConfig() *RefreshConfig {
	if s.refresh == nil {
		return nil
	}
	copied := *s.refresh
	return &copied
}

func (s *OAuth2Session) AutoRefresh() bool {
	return s.refresh != nil
}

// Token returns the token currently attached to requests, or nil.
func (s *OAuth2Session) Token() *oauth2.Token {
	return s.source.current()
}

// AuthCodeURL builds the URL the user visits to authorize this client.
func (s *OAuth2Session) AuthCodeURL(redirectURL, state string) string {
	config := *s.config
	config.RedirectURL = redirectURL
	return config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token, attaches it to the
// session and reports it to the token updater.
func (s *OAuth2Session) Exchange(ctx context.Context, code, redirectURL string) (*oauth2.Token, error) {
	config := *s.config
	config.RedirectURL = redirectURL

	s.logger.Info("Exchanging authorization code", zap.String("url", config.Endpoint.TokenURL))
	token, err := config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		s.logger.Error("Authorization code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("authorization code exchange failed: %w", err)
	}

	s.source.store(token)
	return token, nil
}

func (s *OAuth2Session) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.baseHTTP)
}

// tokenCache is the oauth2.TokenSource behind the session transport. Refresh
// and updater calls happen under mu, so they never overlap.
type tokenCache struct {
	mu      sync.Mutex
	token   *oauth2.Token
	updater TokenUpdater
	session *OAuth2Session
}

func (c *tokenCache) Token() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return nil, ErrNoToken
	}
	if c.token.Valid() {
		return c.token, nil
	}

	s := c.session
	if s.refresh == nil {
		s.logger.Warn("Access token expired and auto-refresh is disabled")
		return nil, ErrTokenExpired
	}

	s.logger.Info("Access token expired, refreshing", zap.String("url", s.refresh.TokenURL))
	// The source has no request context; refresh uses the session's HTTP client.
	token, err := s.config.TokenSource(s.oauthContext(context.Background()), c.token).Token()
	if err != nil {
		s.logger.Error("Failed to refresh access token", zap.Error(err))
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	c.token = token
	c.updater(token)

	s.logger.Info("Successfully refreshed access token", zap.Time("expires_at", token.Expiry))
	return token, nil
}

func (c *tokenCache) store(token *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	if c.updater != nil {
		c.updater(token)
	}
}

func (c *tokenCache) current() *oauth2.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}
