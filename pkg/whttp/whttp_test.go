package whttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHTTPRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>\n Level 14 </title></head><body>ok</body></html>"))
	}))
	defer srv.Close()

	client, err := NewClient(0, "")
	require.NoError(t, err)

	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{URL: srv.URL}, client)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Level 14", res.HTTPTitle)
	require.Contains(t, res.BodyString, "<body>ok</body>")
	require.Equal(t, len(res.BodyString), res.ResponseLength)
}

func TestSendHTTPRequestNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, err := NewClient(0, "")
	require.NoError(t, err)

	_, err = SendHTTPRequest(context.Background(), &WHTTPReq{URL: srv.URL}, client)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStatus), "got %v", err)
}

func TestNewClientRejectsBadProxy(t *testing.T) {
	_, err := NewClient(0, "://nope")
	require.Error(t, err)
}
