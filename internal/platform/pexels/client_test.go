package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key", nil)
	c.baseURL = srv.URL
	return c
}

func TestSearchOneReturnsAttachment(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "mountains", r.URL.Query().Get("query"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"photos":[{
			"width": 1600, "height": 900,
			"photographer": "A. Adams",
			"photographer_url": "https://pexels.com/@adams",
			"alt": "Snowy peaks",
			"src": {"large": "https://images.pexels.com/1.jpg"}
		}]}`))
	})

	att := c.SearchOne(context.Background(), "mountains")

	require.NotNil(t, att)
	assert.Equal(t, "https://images.pexels.com/1.jpg", att.URL)
	assert.Equal(t, "Snowy peaks", att.Alt)
	assert.Equal(t, "A. Adams", att.Photographer)
	assert.Equal(t, 1600, att.Width)
}

func TestSearchOneNilOnEmptyResults(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"photos":[]}`))
	})

	assert.Nil(t, c.SearchOne(context.Background(), "nothing matches this"))
}

func TestSearchOneNilOnRateLimit(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	assert.Nil(t, c.SearchOne(context.Background(), "anything"))
}

func TestSearchOneNilOnServerError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Nil(t, c.SearchOne(context.Background(), "anything"))
}

func TestSearchOneNilWithoutKey(t *testing.T) {
	t.Parallel()

	c := New("", nil)
	assert.Nil(t, c.SearchOne(context.Background(), "anything"))
}

func TestSearchOneUsesQueryAsAltFallback(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"photos":[{
			"width": 800, "height": 600,
			"photographer": "B",
			"src": {"large": "https://images.pexels.com/2.jpg"}
		}]}`))
	})

	att := c.SearchOne(context.Background(), "ocean waves")
	require.NotNil(t, att)
	assert.Equal(t, "ocean waves", att.Alt)
}
