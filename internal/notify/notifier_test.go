package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/domain"
)

func testSubmission() domain.Submission {
	title := "Dr"
	return domain.Submission{
		ID: 7, Title: &title, Name: "Ada Lovelace",
		Email: "ada@example.com", Country: "United Kingdom",
		SubmittedAt: time.Now().UTC(),
	}
}

func TestSelectSenderPriority(t *testing.T) {
	base := config.NotifyConfig{To: "leads@example.com"}

	cfg := base
	cfg.Webhook.URL = "https://relay.example.com/send"
	cfg.SparkPost.APIKey = "sp-key"
	cfg.SES.AccessKey, cfg.SES.SecretKey = "ak", "sk"
	assert.Equal(t, "webhook", selectSender(cfg).Name(), "webhook wins when configured")

	cfg = base
	cfg.SparkPost.APIKey = "sp-key"
	cfg.SES.AccessKey, cfg.SES.SecretKey = "ak", "sk"
	assert.Equal(t, "sparkpost", selectSender(cfg).Name())

	cfg = base
	cfg.SES.AccessKey, cfg.SES.SecretKey = "ak", "sk"
	assert.Equal(t, "ses", selectSender(cfg).Name())

	assert.Equal(t, "log", selectSender(base).Name(), "log-only fallback")
	assert.Equal(t, "log", selectSender(config.NotifyConfig{}).Name(), "no recipient means log-only")
}

func TestRenderBody(t *testing.T) {
	html, err := renderBody(testSubmission())
	require.NoError(t, err)

	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "ada@example.com")
	assert.Contains(t, html, "United Kingdom")
	assert.Contains(t, html, ">7<")
	assert.Contains(t, html, "Dr")
}

func TestRenderBodyEscapesHTML(t *testing.T) {
	sub := testSubmission()
	sub.Name = `<script>alert("x")</script>`

	html, err := renderBody(sub)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderBodyOmitsEmptyTitle(t *testing.T) {
	sub := testSubmission()
	sub.Title = nil

	html, err := renderBody(sub)
	require.NoError(t, err)
	assert.NotContains(t, html, "Title")
}

func TestWebhookSenderDelivers(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer relay-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := NewWebhookSender(config.WebhookConfig{
		URL: server.URL, AuthToken: "relay-token", TimeoutSeconds: 5,
	})

	err := sender.Send(context.Background(), &Message{
		To: "leads@example.com", Subject: "hi", HTML: "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "leads@example.com", got["to"])
	assert.Equal(t, "hi", got["subject"])
}

func TestWebhookSenderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	sender := NewWebhookSender(config.WebhookConfig{URL: server.URL, TimeoutSeconds: 5})
	err := sender.Send(context.Background(), &Message{To: "x@example.com"})
	assert.ErrorContains(t, err, "403")
}

func TestSparkPostSenderDelivers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transmissions", r.URL.Path)
		assert.Equal(t, "sp-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "recipients")
		assert.Contains(t, body, "content")

		w.Write([]byte(`{"results":{"id":"tx-1"}}`))
	}))
	defer server.Close()

	sender := NewSparkPostSender(config.SparkPostConfig{
		APIKey: "sp-key", BaseURL: server.URL, TimeoutSeconds: 5,
	})

	err := sender.Send(context.Background(), &Message{
		To: "leads@example.com", FromEmail: "noreply@example.com", Subject: "s",
	})
	assert.NoError(t, err)
}

func TestNotifierSubmissionReceived(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.NotifyConfig{
		To: "leads@example.com", FromName: "Bot", FromEmail: "noreply@example.com",
	}
	cfg.Webhook.URL = server.URL
	cfg.Webhook.TimeoutSeconds = 5

	n := New(cfg, nil)
	assert.Equal(t, "webhook", n.Provider())
	assert.NoError(t, n.SubmissionReceived(context.Background(), testSubmission()))
}

func TestLogSenderNeverFails(t *testing.T) {
	err := (&LogSender{}).Send(context.Background(), &Message{To: "x@example.com"})
	assert.NoError(t, err)
}
