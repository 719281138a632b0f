package notify

import (
	"context"

	"github.com/insulindose/interest-api/internal/pkg/logger"
)

// LogSender is the no-op fallback when no provider is configured. It records
// the would-be delivery in the logs and nothing else.
type LogSender struct{}

// Name implements Sender.
func (s *LogSender) Name() string { return "log" }

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg *Message) error {
	logger.Info("notification suppressed (no provider configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}
