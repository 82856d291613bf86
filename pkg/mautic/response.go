package mautic

import (
	"bytes"
	"encoding/json"
	"fmt"

	httpclient "github.com/natserract/mautic/pkg/http"
)

// Response is a normalized API response: structured data when the body was
// JSON, raw bytes otherwise. Callers check IsStructured and then inspect Data
// for an error payload, since HTTP error statuses are not returned as errors.
type Response struct {
	StatusCode int
	Data       interface{}
	Raw        []byte

	structured bool
	body       []byte
}

func (r *Response) IsStructured() bool {
	return r.structured
}

// Map returns Data as a JSON object, or nil when it is not one.
func (r *Response) Map() map[string]interface{} {
	m, _ := r.Data.(map[string]interface{})
	return m
}

// Decode unmarshals the structured body into v.
func (r *Response) Decode(v interface{}) error {
	if !r.structured {
		return ErrNotStructured
	}
	if len(r.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Errors extracts API errors from either the {"error": {...}} or the
// {"errors": [...]} payload shape. OAuth2 style {"error": "..."} payloads are
// reported with the response status as code.
func (r *Response) Errors() []APIError {
	if !r.structured || len(r.body) == 0 {
		return nil
	}

	var payload struct {
		Error       json.RawMessage `json:"error"`
		Errors      []APIError      `json:"errors"`
		Description string          `json:"error_description"`
	}
	if err := json.Unmarshal(r.body, &payload); err != nil {
		return nil
	}

	errs := payload.Errors
	raw := bytes.TrimSpace(payload.Error)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '{':
		var apiErr APIError
		if err := json.Unmarshal(raw, &apiErr); err == nil {
			errs = append(errs, apiErr)
		}
	case raw[0] == '"':
		var kind string
		if err := json.Unmarshal(raw, &kind); err == nil {
			message := kind
			if payload.Description != "" {
				message = payload.Description
			}
			errs = append(errs, APIError{Code: r.StatusCode, Message: message, Type: kind})
		}
	}
	return errs
}

// FirstError returns the first API error or nil.
func (r *Response) FirstError() *APIError {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &errs[0]
}

// normalize turns a transport response into a Response. A 2xx body must be
// JSON; any other status falls back to raw bytes when it is not.
func normalize(resp *httpclient.Response) (*Response, error) {
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 && resp.IsSuccess() {
		return &Response{StatusCode: resp.StatusCode, structured: true}, nil
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if resp.IsSuccess() {
			return nil, fmt.Errorf("%w: status %d: %v", ErrInvalidResponse, resp.StatusCode, err)
		}
		return &Response{
			StatusCode: resp.StatusCode,
			Raw:        resp.Body,
			body:       resp.Body,
		}, nil
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Data:       data,
		structured: true,
		body:       body,
	}, nil
}

// ActionNotSupported returns the structured error resource clients hand back
// for operations their resource type does not support. No request is made.
func ActionNotSupported(action string) *Response {
	data := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    500,
			"message": fmt.Sprintf("%s is not supported at this time", action),
		},
	}
	body, _ := json.Marshal(data)
	return &Response{
		Data:       data,
		structured: true,
		body:       body,
	}
}
