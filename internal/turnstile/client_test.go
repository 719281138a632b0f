package turnstile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/service/interest"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		baseURL:   server.URL,
		secretKey: "test-secret",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func TestNewClientDisabledWithoutSecret(t *testing.T) {
	assert.Nil(t, NewClient(config.TurnstileConfig{}))
}

func TestVerifyEmptyTokenSkipped(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	status, err := newTestClient(server).Verify(context.Background(), "", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, interest.VerifySkipped, status)
	assert.False(t, called, "no network call for an absent token")
}

func TestVerifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/siteverify", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.PostForm.Get("secret"))
		assert.Equal(t, "tok-123", r.PostForm.Get("response"))
		assert.Equal(t, "1.2.3.4", r.PostForm.Get("remoteip"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	status, err := newTestClient(server).Verify(context.Background(), "tok-123", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, interest.VerifyVerified, status)
}

func TestVerifyRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer server.Close()

	status, err := newTestClient(server).Verify(context.Background(), "bad-token", "")
	require.NoError(t, err)
	assert.Equal(t, interest.VerifyRejected, status)
}

func TestVerifyParseFailureIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Verify(context.Background(), "tok", "")
	assert.Error(t, err, "parse failure surfaces as an error, never as a rejection")
}

func TestVerifyTransportFailureIsError(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close() // connection refused

	_, err := newTestClient(server).Verify(context.Background(), "tok", "")
	assert.Error(t, err)
}
