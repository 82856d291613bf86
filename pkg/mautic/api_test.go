package mautic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, endpoint string, handler http.HandlerFunc) (*BaseAPI, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := NewBasicAuthSession(server.URL+"/ ", "admin", "secret")
	return NewBaseAPI(session, endpoint), server
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewBaseAPI_EndpointURL(t *testing.T) {
	t.Parallel()

	session := NewBasicAuthSession("  https://mautic.example.com/ ", "u", "p")
	api := NewBaseAPI(session, " /contacts/ ")
	assert.Equal(t, "https://mautic.example.com/api/contacts", api.EndpointURL())
}

func TestBaseAPI_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns parsed JSON", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "contacts", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/contacts/7", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]interface{}{"contact": map[string]interface{}{"id": 7}})
		})

		resp, err := api.Get(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, resp.IsStructured())
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]interface{}{
			"contact": map[string]interface{}{"id": float64(7)},
		}, resp.Data)
	})

	t.Run("error status with JSON body is returned verbatim", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "contacts", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
		})

		resp, err := api.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, resp.IsStructured())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, map[string]interface{}{
			"error": map[string]interface{}{"code": float64(404), "message": "not found"},
		}, resp.Data)
		require.NotNil(t, resp.FirstError())
		assert.Equal(t, 404, resp.FirstError().Code)
	})

	t.Run("error status with plain body returns raw bytes", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "contacts", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("Internal Server Error"))
		})

		resp, err := api.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, resp.IsStructured())
		assert.Nil(t, resp.Data)
		assert.Equal(t, []byte("Internal Server Error"), resp.Raw)
	})

	t.Run("success status with plain body is an error", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "contacts", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html></html>"))
		})

		_, err := api.Get(context.Background(), 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidResponse))
	})

	t.Run("transport error propagates", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		session := NewBasicAuthSession(server.URL, "u", "p")
		server.Close()

		_, err := NewBaseAPI(session, "contacts").Get(context.Background(), 1)
		require.Error(t, err)
		var urlErr *url.Error
		assert.True(t, errors.As(err, &urlErr))
	})
}

func TestBaseAPI_GetList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		published bool
		opts      ListOptions
		want      url.Values
	}{
		{
			name: "falsy start and limit are omitted",
			opts: ListOptions{Search: "foo", Start: 0, Limit: 0},
			want: url.Values{"search": {"foo"}},
		},
		{
			name: "all options",
			opts: ListOptions{
				Search:        "email:*@example.com",
				Start:         10,
				Limit:         5,
				OrderBy:       "id",
				OrderByDir:    "DESC",
				PublishedOnly: true,
				Minimal:       true,
			},
			want: url.Values{
				"search":        {"email:*@example.com"},
				"start":         {"10"},
				"limit":         {"5"},
				"orderBy":       {"id"},
				"orderByDir":    {"DESC"},
				"publishedOnly": {"true"},
				"minimal":       {"true"},
			},
		},
		{
			name: "order direction defaults to ASC",
			opts: ListOptions{OrderBy: "dateAdded"},
			want: url.Values{"orderBy": {"dateAdded"}, "orderByDir": {"ASC"}},
		},
		{
			name:      "published list forces publishedOnly",
			published: true,
			opts:      ListOptions{},
			want:      url.Values{"publishedOnly": {"true"}},
		},
		{
			name:      "published list keeps other options",
			published: true,
			opts:      ListOptions{Search: "bar", Limit: 3},
			want:      url.Values{"search": {"bar"}, "limit": {"3"}, "publishedOnly": {"true"}},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			api, _ := newTestAPI(t, "forms", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/forms", r.URL.Path)
				assert.Equal(t, testCase.want, r.URL.Query())
				writeJSON(w, http.StatusOK, map[string]interface{}{"total": 0, "forms": []interface{}{}})
			})

			var (
				resp *Response
				err  error
			)
			if testCase.published {
				resp, err = api.GetPublishedList(context.Background(), testCase.opts)
			} else {
				resp, err = api.GetList(context.Background(), testCase.opts)
			}
			require.NoError(t, err)
			assert.Equal(t, float64(0), resp.Map()["total"])
		})
	}
}

func TestBaseAPI_Create(t *testing.T) {
	t.Parallel()

	api, _ := newTestAPI(t, "contacts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contacts/new", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Ada", r.PostForm.Get("firstname"))
		assert.Equal(t, "ada@example.com", r.PostForm.Get("email"))
		writeJSON(w, http.StatusCreated, map[string]interface{}{"contact": map[string]interface{}{"id": 12}})
	})

	resp, err := api.Create(context.Background(), map[string]string{
		"firstname": "Ada",
		"email":     "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Contact struct {
			ID int `json:"id"`
		} `json:"contact"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, 12, out.Contact.ID)
}

func TestBaseAPI_Edit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		createIfNotExists bool
		method            string
	}{
		{name: "patch by default", createIfNotExists: false, method: http.MethodPatch},
		{name: "put when creating", createIfNotExists: true, method: http.MethodPut},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			api, _ := newTestAPI(t, "contacts", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, testCase.method, r.Method)
				assert.Equal(t, "/api/contacts/5/edit", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "Lovelace", r.PostForm.Get("lastname"))
				writeJSON(w, http.StatusOK, map[string]interface{}{"contact": map[string]interface{}{"id": 5}})
			})

			resp, err := api.Edit(context.Background(), 5, url.Values{"lastname": {"Lovelace"}}, testCase.createIfNotExists)
			require.NoError(t, err)
			assert.True(t, resp.IsStructured())
		})
	}
}

func TestBaseAPI_Delete(t *testing.T) {
	t.Parallel()

	api, _ := newTestAPI(t, "segments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/segments/9/delete", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{"list": map[string]interface{}{"name": "gone"}})
	})

	resp, err := api.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"list": map[string]interface{}{"name": "gone"}}, resp.Data)
}

func TestBaseAPI_SubmitFormData(t *testing.T) {
	t.Parallel()

	t.Run("success message", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "forms", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/form/submit", r.URL.Path)
			assert.Equal(t, "3", r.URL.Query().Get("formId"))
			assert.Equal(t, "newsletter", r.URL.Query().Get("utm_source"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "ada@example.com", r.PostForm.Get("mauticform[email]"))
			_, _ = w.Write([]byte(`<html><body><div class="well text-center">Thank you</div></body></html>`))
		})

		ok, err := api.SubmitFormData(context.Background(), 3, map[string]string{"mauticform[email]": "ada@example.com"}, "newsletter")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("utm_source omitted when empty", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "forms", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, url.Values{"formId": {"3"}}, r.URL.Query())
			_, _ = w.Write([]byte(`<div class="well text-center">Thanks</div>`))
		})

		ok, err := api.SubmitFormData(context.Background(), 3, nil, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("error message", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "forms", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<div class="well text-center">Errors: email required</div>`))
		})

		ok, err := api.SubmitFormData(context.Background(), 3, map[string]string{}, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-2xx status is an error regardless of body", func(t *testing.T) {
		t.Parallel()

		api, _ := newTestAPI(t, "forms", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<div class="well text-center">Thank you</div>`))
		})

		ok, err := api.SubmitFormData(context.Background(), 3, map[string]string{}, "")
		require.Error(t, err)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrFormSubmission))

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	})
}

func TestActionNotSupported(t *testing.T) {
	t.Parallel()

	resp := ActionNotSupported("delete")
	assert.True(t, resp.IsStructured())
	assert.Equal(t, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    500,
			"message": "delete is not supported at this time",
		},
	}, resp.Data)

	require.NotNil(t, resp.FirstError())
	assert.Equal(t, APIError{Code: 500, Message: "delete is not supported at this time"}, *resp.FirstError())

	api := NewBaseAPI(NewBasicAuthSession("https://mautic.example.com", "u", "p"), "stats")
	assert.Equal(t, resp.Data, api.ActionNotSupported("delete").Data)
}
