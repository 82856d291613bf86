// Package mautic provides a client for the Mautic REST API.
//
// Mautic is an open source marketing automation platform. Its REST API exposes
// contacts, companies, segments, campaigns, emails, forms and other marketing
// entities under a common URL scheme:
//
//	GET    /api/{endpoint}              list
//	GET    /api/{endpoint}/{id}         get
//	POST   /api/{endpoint}/new          create
//	PATCH  /api/{endpoint}/{id}/edit    edit
//	PUT    /api/{endpoint}/{id}/edit    edit, creating when missing
//	DELETE /api/{endpoint}/{id}/delete  delete
//
// A Session authenticates requests, either with OAuth2 (NewOAuth2Session) or
// with HTTP basic auth (NewBasicAuthSession). BaseAPI binds a session to one
// endpoint and implements the operations above, plus public form submission.
//
// API error statuses are not returned as Go errors: the error payload comes
// back as a Response like any other, and callers inspect it with
// Response.Errors. Go errors are reserved for transport failures.
package mautic

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	httpclient "github.com/natserract/mautic/pkg/http"
	"go.uber.org/zap"
)

// BaseAPI is a generic client for one Mautic API resource.
type BaseAPI struct {
	session     Session
	endpointURL string
	logger      *zap.Logger
}

var _ ResourceAPI = (*BaseAPI)(nil)

// NewBaseAPI binds session to endpoint, e.g. "contacts" or "/forms/".
func NewBaseAPI(session Session, endpoint string) *BaseAPI {
	return NewBaseAPIWithLogger(session, endpoint, zap.NewNop())
}

func NewBaseAPIWithLogger(session Session, endpoint string, logger *zap.Logger) *BaseAPI {
	return &BaseAPI{
		session:     session,
		endpointURL: fmt.Sprintf("%s/api/%s", session.BaseURL(), strings.Trim(endpoint, " /")),
		logger:      logger,
	}
}

func (a *BaseAPI) EndpointURL() string {
	return a.endpointURL
}

// Get retrieves a single item.
func (a *BaseAPI) Get(ctx context.Context, id int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/%d", a.endpointURL, id)
	resp, err := a.session.Transport().Get(ctx, endpoint, nil)
	if err != nil {
		a.logger.Error("Get request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return a.processResponse(http.MethodGet, endpoint, resp)
}

// GetList retrieves a page of items.
func (a *BaseAPI) GetList(ctx context.Context, opts ListOptions) (*Response, error) {
	query := opts.Query()
	resp, err := a.session.Transport().Get(ctx, a.endpointURL, query)
	if err != nil {
		a.logger.Error("List request failed", zap.Error(err), zap.String("endpoint", a.endpointURL))
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	return a.processResponse(http.MethodGet, a.endpointURL, resp)
}

// GetPublishedList is GetList restricted to published items.
func (a *BaseAPI) GetPublishedList(ctx context.Context, opts ListOptions) (*Response, error) {
	opts.PublishedOnly = true
	return a.GetList(ctx, opts)
}

// Create adds a new item. params is form encoded, see httpclient.EncodeForm
// for the accepted types.
func (a *BaseAPI) Create(ctx context.Context, params interface{}) (*Response, error) {
	endpoint := a.endpointURL + "/new"
	resp, err := a.session.Transport().PostForm(ctx, endpoint, nil, params)
	if err != nil {
		a.logger.Error("Create request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	return a.processResponse(http.MethodPost, endpoint, resp)
}

// Edit updates an item with PATCH, or with PUT when createIfNotExists is set,
// which makes Mautic create the item if id does not exist.
func (a *BaseAPI) Edit(ctx context.Context, id int, params interface{}, createIfNotExists bool) (*Response, error) {
	endpoint := fmt.Sprintf("%s/%d/edit", a.endpointURL, id)

	var (
		resp   *httpclient.Response
		err    error
		method = http.MethodPatch
	)
	if createIfNotExists {
		method = http.MethodPut
		resp, err = a.session.Transport().PutForm(ctx, endpoint, params)
	} else {
		resp, err = a.session.Transport().PatchForm(ctx, endpoint, params)
	}
	if err != nil {
		a.logger.Error("Edit request failed", zap.Error(err), zap.String("method", method), zap.String("endpoint", endpoint))
		return nil, fmt.Errorf("edit request failed: %w", err)
	}
	return a.processResponse(method, endpoint, resp)
}

// Delete removes an item.
func (a *BaseAPI) Delete(ctx context.Context, id int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/%d/delete", a.endpointURL, id)
	resp, err := a.session.Transport().Delete(ctx, endpoint)
	if err != nil {
		a.logger.Error("Delete request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, fmt.Errorf("delete request failed: %w", err)
	}
	return a.processResponse(http.MethodDelete, endpoint, resp)
}

// SubmitFormData posts data to a public Mautic form. The endpoint answers
// with HTML, so success is read from the rendered result message. Unlike the
// other operations, a non-2xx status is returned as a *StatusError.
func (a *BaseAPI) SubmitFormData(ctx context.Context, formID int, data interface{}, utmSource string) (bool, error) {
	endpoint := a.session.BaseURL() + "/form/submit"
	query := url.Values{"formId": {strconv.Itoa(formID)}}
	if utmSource != "" {
		query.Set("utm_source", utmSource)
	}

	resp, err := a.session.Transport().Do(httpclient.RequestOptions{
		Method: http.MethodPost,
		URL:    endpoint,
		Query:  query,
		Headers: map[string]string{
			"Content-Type": httpclient.ContentTypeForm,
			"Accept":       "text/html",
		},
		Body:    formBody(data),
		Context: ctx,
	})
	if err != nil {
		a.logger.Error("Form submission request failed", zap.Error(err), zap.Int("form_id", formID))
		return false, fmt.Errorf("form submission request failed: %w", err)
	}

	if !resp.IsSuccess() {
		a.logger.Error("Form submission failed",
			zap.Int("form_id", formID),
			zap.Int("status_code", resp.StatusCode))
		return false, &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	message, err := ExtractFormMessage(bytes.NewReader(resp.Body))
	if err != nil {
		a.logger.Error("Failed to parse form response", zap.Error(err), zap.Int("form_id", formID))
		return false, fmt.Errorf("failed to parse form response: %w", err)
	}

	succeeded := FormSubmissionSucceeded(message)
	a.logger.Debug("Form submitted",
		zap.Int("form_id", formID),
		zap.Bool("succeeded", succeeded),
		zap.String("message", message))

	return succeeded, nil
}

// ActionNotSupported is the method form of the package-level helper, for
// resource clients embedding BaseAPI.
func (a *BaseAPI) ActionNotSupported(action string) *Response {
	return ActionNotSupported(action)
}

func (a *BaseAPI) processResponse(method, endpoint string, resp *httpclient.Response) (*Response, error) {
	normalized, err := normalize(resp)
	if err != nil {
		a.logger.Error("Failed to parse response",
			zap.Error(err),
			zap.String("method", method),
			zap.String("endpoint", endpoint))
		return nil, err
	}

	if !resp.IsSuccess() {
		a.logger.Warn("API returned error status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Bool("structured", normalized.IsStructured()))
	}

	return normalized, nil
}

// formBody keeps an empty submission form encoded.
func formBody(data interface{}) interface{} {
	if data == nil {
		return ""
	}
	return data
}
