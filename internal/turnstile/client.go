// Package turnstile implements the Cloudflare Turnstile siteverify client.
package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/pkg/httpretry"
	"github.com/insulindose/interest-api/internal/pkg/logger"
	"github.com/insulindose/interest-api/internal/service/interest"
)

// Client verifies Turnstile tokens against the siteverify endpoint. It
// implements interest.Verifier.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a Turnstile client. Returns nil if no secret is
// configured, which disables verification at the pipeline level.
func NewClient(cfg config.TurnstileConfig) *Client {
	if cfg.SecretKey == "" {
		return nil
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 2),
	}
}

// siteverifyResponse is the subset of the siteverify payload we act on.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify redeems a token server-side. An empty token is skipped, not
// rejected, so submissions without a challenge widget (local/testing
// origins) still work. Transport and parse failures are returned as errors;
// the caller decides how they surface.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (interest.VerifyStatus, error) {
	if token == "" {
		return interest.VerifySkipped, nil
	}

	form := url.Values{}
	form.Set("secret", c.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/siteverify", strings.NewReader(form.Encode()))
	if err != nil {
		return interest.VerifySkipped, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return interest.VerifySkipped, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return interest.VerifySkipped, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return interest.VerifySkipped, fmt.Errorf("siteverify error (status %d): %s", resp.StatusCode, string(body))
	}

	var result siteverifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return interest.VerifySkipped, fmt.Errorf("parsing response: %w", err)
	}

	if !result.Success {
		logger.Info("turnstile token rejected", "error_codes", strings.Join(result.ErrorCodes, ","))
		return interest.VerifyRejected, nil
	}
	return interest.VerifyVerified, nil
}
