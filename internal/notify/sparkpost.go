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

// SparkPostSender sends the notification via the SparkPost Transmissions API.
type SparkPostSender struct {
	apiKey     string
	baseURL    string
	httpClient httpretry.HTTPDoer
}

// NewSparkPostSender creates a sender targeting the SparkPost v1 API.
func NewSparkPostSender(cfg config.SparkPostConfig) *SparkPostSender {
	return &SparkPostSender{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 2),
	}
}

// Name implements Sender.
func (s *SparkPostSender) Name() string { return "sparkpost" }

// Send implements Sender.
func (s *SparkPostSender) Send(ctx context.Context, msg *Message) error {
	if s.apiKey == "" {
		return fmt.Errorf("SparkPost API key not configured")
	}

	transmission := map[string]interface{}{
		"recipients": []map[string]interface{}{
			{"address": map[string]string{"email": msg.To}},
		},
		"content": map[string]interface{}{
			"from":    map[string]string{"email": msg.FromEmail, "name": msg.FromName},
			"subject": msg.Subject,
			"html":    msg.HTML,
			"text":    msg.Text,
		},
	}

	jsonData, err := json.Marshal(transmission)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transmissions", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SparkPost error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
