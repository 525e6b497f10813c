// Package notifier delivers outbound user notifications. Delivery is fire
// and forget: failures are logged and never propagate to the owning flow.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/google/uuid"

	"github.com/tmarkov/subledger/internal/config"
)

// Notifier sends user-facing notifications.
type Notifier interface {
	NewSubscription(ctx context.Context, recipient, productName string, priceCents int64)
}

// LogNotifier writes notifications to the structured log only. Used as the
// default when no SMTP host is configured, and in tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NewSubscription logs a new-subscription notification.
func (n *LogNotifier) NewSubscription(_ context.Context, recipient, productName string, priceCents int64) {
	n.logger.Info("notification: new subscription",
		"message_id", uuid.New(),
		"recipient", recipient,
		"product", productName,
		"price_cents", priceCents,
	)
}

// SMTPNotifier delivers notifications over SMTP with STARTTLS.
type SMTPNotifier struct {
	logger *slog.Logger
	cfg    config.SMTPConfig
}

// NewSMTPNotifier creates an SMTPNotifier.
func NewSMTPNotifier(cfg config.SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{logger: logger, cfg: cfg}
}

// NewSubscription emails the owner about their new subscription. Errors are
// logged, not returned.
func (n *SMTPNotifier) NewSubscription(_ context.Context, recipient, productName string, priceCents int64) {
	messageID := uuid.New()
	subject := "Your new subscription"
	body := fmt.Sprintf(
		"You are now subscribed to %s for %d.%02d per term.",
		productName, priceCents/100, priceCents%100,
	)

	if err := n.send(recipient, subject, body, messageID); err != nil {
		n.logger.Error("failed to send notification email",
			"message_id", messageID,
			"recipient", recipient,
			"error", err,
		)
		return
	}

	n.logger.Info("notification email sent",
		"message_id", messageID,
		"recipient", recipient,
	)
}

func (n *SMTPNotifier) send(recipient, subject, body string, messageID uuid.UUID) error {
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMessage-ID: <%s@subledger>\r\n\r\n%s\r\n",
		n.cfg.From, recipient, subject, messageID, body,
	)

	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	return smtp.SendMail(addr, auth, n.cfg.From, []string{recipient}, []byte(msg))
}

// FromConfig picks the SMTP notifier when a host is configured, the log
// notifier otherwise.
func FromConfig(cfg config.SMTPConfig, logger *slog.Logger) Notifier {
	if cfg.Host == "" {
		return NewLogNotifier(logger)
	}
	return NewSMTPNotifier(cfg, logger)
}
