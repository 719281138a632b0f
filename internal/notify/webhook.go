package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/pkg/httpretry"
)

// WebhookSender posts the message as JSON to a generic email relay endpoint.
type WebhookSender struct {
	url        string
	authToken  string
	httpClient httpretry.HTTPDoer
}

// NewWebhookSender creates a sender targeting the configured relay URL.
func NewWebhookSender(cfg config.WebhookConfig) *WebhookSender {
	return &WebhookSender{
		url:       cfg.URL,
		authToken: cfg.AuthToken,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 2),
	}
}

// Name implements Sender.
func (s *WebhookSender) Name() string { return "webhook" }

// Send implements Sender.
func (s *WebhookSender) Send(ctx context.Context, msg *Message) error {
	payload := map[string]interface{}{
		"to":         msg.To,
		"from_name":  msg.FromName,
		"from_email": msg.FromEmail,
		"subject":    msg.Subject,
		"html":       msg.HTML,
		"text":       msg.Text,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
