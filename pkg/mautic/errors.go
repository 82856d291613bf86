package mautic

import (
	"errors"
	"fmt"
)

var (
	ErrNoToken         = errors.New("no OAuth2 token available")
	ErrTokenExpired    = errors.New("access token expired and auto-refresh is disabled")
	ErrInvalidResponse = errors.New("response body is not valid JSON")
	ErrNotStructured   = errors.New("response is raw bytes, not structured data")
	ErrFormSubmission  = errors.New("form submission failed")
)

// APIError is a single error entry from a Mautic error payload.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mautic: %s (code: %d)", e.Message, e.Code)
}

// StatusError is returned when an operation requires a 2xx response and the
// server answered otherwise.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrFormSubmission, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrFormSubmission
}
