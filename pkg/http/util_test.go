package http_test

import (
	"net/url"
	"testing"

	httpclient "github.com/natserract/mautic/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeForm(t *testing.T) {
	t.Parallel()

	t.Run("map with slices and nils", func(t *testing.T) {
		t.Parallel()

		form, err := httpclient.EncodeForm(map[string]interface{}{
			"firstname": "Ada",
			"points":    10,
			"tags":      []interface{}{"a", "b"},
			"owner":     nil,
		})
		require.NoError(t, err)
		assert.Equal(t, "Ada", form.Get("firstname"))
		assert.Equal(t, "10", form.Get("points"))
		assert.Equal(t, []string{"a", "b"}, form["tags"])
		_, ok := form["owner"]
		assert.False(t, ok)
	})

	t.Run("url.Values passes through", func(t *testing.T) {
		t.Parallel()

		in := url.Values{"email": {"a@example.com"}}
		form, err := httpclient.EncodeForm(in)
		require.NoError(t, err)
		assert.Equal(t, in, form)
	})

	t.Run("struct via json tags", func(t *testing.T) {
		t.Parallel()

		type contact struct {
			Email string `json:"email"`
			Phone string `json:"phone,omitempty"`
		}
		form, err := httpclient.EncodeForm(contact{Email: "a@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "email=a%40example.com", form.Encode())
	})

	t.Run("non-object body fails", func(t *testing.T) {
		t.Parallel()

		_, err := httpclient.EncodeForm([]int{1, 2})
		require.Error(t, err)
	})
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	got, err := httpclient.BuildURL("https://mautic.example.com/form/submit", url.Values{"formId": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, "https://mautic.example.com/form/submit?formId=3", got)

	got, err = httpclient.BuildURL("https://mautic.example.com/api/contacts", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://mautic.example.com/api/contacts", got)
}
