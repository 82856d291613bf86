package mautic

import "context"

// ResourceAPI defines the generic operations available on a Mautic resource
type ResourceAPI interface {
	// Get retrieves a single item
	Get(ctx context.Context, id int) (*Response, error)

	// GetList retrieves a page of items
	GetList(ctx context.Context, opts ListOptions) (*Response, error)

	// GetPublishedList retrieves a page of published items
	GetPublishedList(ctx context.Context, opts ListOptions) (*Response, error)

	// Create adds a new item
	Create(ctx context.Context, params interface{}) (*Response, error)

	// Edit updates an item, optionally creating it
	Edit(ctx context.Context, id int, params interface{}, createIfNotExists bool) (*Response, error)

	// Delete removes an item
	Delete(ctx context.Context, id int) (*Response, error)

	// SubmitFormData posts data to a public form and reports whether it was accepted
	SubmitFormData(ctx context.Context, formID int, data interface{}, utmSource string) (bool, error)
}
