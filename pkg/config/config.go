package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthModeOAuth2 = "oauth2"
	AuthModeBasic  = "basic"
)

var ErrUnknownAuthMode = errors.New("unknown auth mode")

type Config struct {
	BaseURL  string
	AuthMode string

	ClientID     string
	ClientSecret string
	Scope        string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time

	Username string
	Password string

	HTTPTimeout time.Duration
	MaxRetries  int
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:      os.Getenv("MAUTIC_BASE_URL"),
		AuthMode:     getEnv("MAUTIC_AUTH_MODE", AuthModeOAuth2),
		ClientID:     os.Getenv("MAUTIC_CLIENT_ID"),
		ClientSecret: os.Getenv("MAUTIC_CLIENT_SECRET"),
		Scope:        os.Getenv("MAUTIC_SCOPE"),
		AccessToken:  os.Getenv("MAUTIC_ACCESS_TOKEN"),
		RefreshToken: os.Getenv("MAUTIC_REFRESH_TOKEN"),
		Username:     os.Getenv("MAUTIC_USERNAME"),
		Password:     os.Getenv("MAUTIC_PASSWORD"),
		HTTPTimeout:  30 * time.Second,
	}

	if v := os.Getenv("MAUTIC_TOKEN_EXPIRY"); v != "" {
		expiry, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("MAUTIC_TOKEN_EXPIRY must be RFC3339: %w", err)
		}
		cfg.TokenExpiry = expiry
	}
	if v := os.Getenv("MAUTIC_HTTP_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MAUTIC_HTTP_TIMEOUT must be a duration: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}
	if v := os.Getenv("MAUTIC_MAX_RETRIES"); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MAUTIC_MAX_RETRIES must be an integer: %w", err)
		}
		cfg.MaxRetries = retries
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("MAUTIC_BASE_URL is required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAUTIC_MAX_RETRIES must not be negative")
	}

	switch c.AuthMode {
	case AuthModeOAuth2:
		if c.ClientID == "" {
			return fmt.Errorf("MAUTIC_CLIENT_ID is required")
		}
		// Secret and tokens are optional: without a secret the session
		// cannot refresh, without a token only authorize-url works.
	case AuthModeBasic:
		if c.Username == "" {
			return fmt.Errorf("MAUTIC_USERNAME is required")
		}
		if c.Password == "" {
			return fmt.Errorf("MAUTIC_PASSWORD is required")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAuthMode, c.AuthMode)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
