// Package notify delivers best-effort notification emails for new
// submissions.
//
// Provider adapters are split into individual files:
//   - webhook.go:   generic webhook-style email relay (JSON POST)
//   - sparkpost.go: SparkPost Transmissions API
//   - ses.go:       AWS SES v2
//   - log.go:       log-only no-op fallback
//
// Exactly one provider is selected at startup from configuration, by
// priority: webhook, then SparkPost, then SES, then log-only. There is no
// fallback cascade between providers at send time.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/domain"
	"github.com/insulindose/interest-api/internal/metrics"
	"github.com/insulindose/interest-api/internal/pkg/logger"
)

// Message is one notification email ready for a provider.
type Message struct {
	To        string
	FromName  string
	FromEmail string
	Subject   string
	HTML      string
	Text      string
}

// Sender delivers a single message through one provider.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	Name() string
}

// Notifier implements interest.Notifier over the selected provider. Send
// failures are reported to the caller (the pipeline logs and discards
// them) and recorded in metrics for operational visibility.
type Notifier struct {
	sender  Sender
	cfg     config.NotifyConfig
	metrics *metrics.Metrics
}

// New creates a notifier with the provider the configuration selects.
func New(cfg config.NotifyConfig, m *metrics.Metrics) *Notifier {
	return &Notifier{sender: selectSender(cfg), cfg: cfg, metrics: m}
}

func selectSender(cfg config.NotifyConfig) Sender {
	if cfg.To == "" {
		return &LogSender{}
	}
	switch {
	case cfg.Webhook.URL != "":
		return NewWebhookSender(cfg.Webhook)
	case cfg.SparkPost.APIKey != "":
		return NewSparkPostSender(cfg.SparkPost)
	case cfg.SES.AccessKey != "" && cfg.SES.SecretKey != "":
		return NewSESSender(cfg.SES)
	default:
		return &LogSender{}
	}
}

// Provider returns the name of the selected provider, for startup logging.
func (n *Notifier) Provider() string { return n.sender.Name() }

// SubmissionReceived renders and delivers the new-submission notification.
func (n *Notifier) SubmissionReceived(ctx context.Context, sub domain.Submission) error {
	html, err := renderBody(sub)
	if err != nil {
		n.metrics.IncNotify(n.sender.Name(), "failed")
		return fmt.Errorf("render notification: %w", err)
	}

	msg := &Message{
		To:        n.cfg.To,
		FromName:  n.cfg.FromName,
		FromEmail: n.cfg.FromEmail,
		Subject:   fmt.Sprintf("New expression of interest from %s", sub.Country),
		HTML:      html,
		Text: fmt.Sprintf("New expression of interest #%d: %s <%s> from %s",
			sub.ID, sub.Name, sub.Email, sub.Country),
	}

	start := time.Now()
	if err := n.sender.Send(ctx, msg); err != nil {
		n.metrics.IncNotify(n.sender.Name(), "failed")
		return fmt.Errorf("%s send: %w", n.sender.Name(), err)
	}

	n.metrics.IncNotify(n.sender.Name(), "sent")
	logger.Info("notification sent",
		"provider", n.sender.Name(), "id", sub.ID, "took", time.Since(start))
	return nil
}
