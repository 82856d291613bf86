package http

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// BuildURL appends queryParams to the query already present on rawURL.
func BuildURL(rawURL string, queryParams map[string][]string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("error parsing URL: %w", err)
	}
	if len(queryParams) == 0 {
		return parsedURL.String(), nil
	}

	q := parsedURL.Query()
	for key, values := range queryParams {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	parsedURL.RawQuery = q.Encode()

	return parsedURL.String(), nil
}

// EncodeForm converts a request body into form values. It accepts url.Values,
// map[string]string, map[string]interface{} and anything that marshals to a
// JSON object. Nil values are skipped and slices become repeated keys.
func EncodeForm(body interface{}) (url.Values, error) {
	form := url.Values{}

	switch v := body.(type) {
	case nil:
	case url.Values:
		form = v
	case map[string][]string:
		form = url.Values(v)
	case map[string]string:
		for k, val := range v {
			form.Set(k, val)
		}
	case map[string]interface{}:
		for k, val := range v {
			addFormValue(form, k, val)
		}
	default:
		// Structs and other JSON-marshalable types go through a map first.
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		var m map[string]interface{}
		if err := json.Unmarshal(bodyJSON, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal request body: %w", err)
		}
		for k, val := range m {
			addFormValue(form, k, val)
		}
	}

	return form, nil
}

func addFormValue(form url.Values, key string, val interface{}) {
	switch vv := val.(type) {
	case nil:
	case []string:
		for _, s := range vv {
			form.Add(key, s)
		}
	case []interface{}:
		for _, item := range vv {
			if item != nil {
				form.Add(key, fmt.Sprint(item))
			}
		}
	default:
		form.Add(key, fmt.Sprint(vv))
	}
}
