package urlhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnshortener(t *testing.T) *Unshortener {
	t.Helper()
	u, err := NewUnshortener(5*time.Second, zerolog.Nop())
	require.NoError(t, err)
	return u
}

func TestUnshorten_FollowsRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Location", "https://example.com/landing")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	defer server.Close()

	resolved, err := newTestUnshortener(t).Unshorten(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/landing", resolved)
}

func TestUnshorten_RelativeLocationResolved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/moved/here")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	resolved, err := newTestUnshortener(t).Unshorten(context.Background(), server.URL+"/short")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/moved/here", resolved)
}

func TestUnshorten_NoRedirectKeepsOriginal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resolved, err := newTestUnshortener(t).Unshorten(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL, resolved)
}

func TestUnshorten_ErrorStatusKeepsOriginal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolved, err := newTestUnshortener(t).Unshorten(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL, resolved)
}

func TestUnshorten_RedirectWithoutLocationKeepsOriginal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 304 carries no Location header.
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	resolved, err := newTestUnshortener(t).Unshorten(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL, resolved)
}

func TestUnshorten_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	rawURL := server.URL
	resolved, err := newTestUnshortener(t).Unshorten(context.Background(), rawURL)
	require.Error(t, err)
	assert.Equal(t, rawURL, resolved)
}

func TestUnshorten_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolved, err := newTestUnshortener(t).Unshorten(ctx, server.URL)
	require.Error(t, err)
	assert.Equal(t, server.URL, resolved)
}
