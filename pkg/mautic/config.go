package mautic

import (
	"fmt"

	"github.com/natserract/mautic/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// NewSessionFromConfig builds the session selected by cfg.AuthMode. updater
// is only used in OAuth2 mode.
func NewSessionFromConfig(cfg *config.Config, logger *zap.Logger, updater TokenUpdater) (Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []Option{
		WithLogger(logger),
		WithTimeout(cfg.HTTPTimeout),
		WithMaxRetries(cfg.MaxRetries),
	}

	switch cfg.AuthMode {
	case config.AuthModeBasic:
		return NewBasicAuthSession(cfg.BaseURL, cfg.Username, cfg.Password, opts...), nil
	case config.AuthModeOAuth2:
		if cfg.ClientSecret != "" {
			opts = append(opts, WithClientSecret(cfg.ClientSecret))
		}
		if cfg.Scope != "" {
			opts = append(opts, WithScope(cfg.Scope))
		}
		if cfg.AccessToken != "" || cfg.RefreshToken != "" {
			opts = append(opts, WithToken(&oauth2.Token{
				AccessToken:  cfg.AccessToken,
				RefreshToken: cfg.RefreshToken,
				TokenType:    "Bearer",
				Expiry:       cfg.TokenExpiry,
			}))
		}
		if updater != nil {
			opts = append(opts, WithTokenUpdater(updater))
		}
		return NewOAuth2Session(cfg.BaseURL, cfg.ClientID, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownAuthMode, cfg.AuthMode)
	}
}
