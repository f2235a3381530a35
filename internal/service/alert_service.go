package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/email"
	"github.com/chatgate/chatgate/internal/logger"
)

// AlertService delivers lockout alerts to the operator mailbox. Alerts
// are strictly best-effort: a delivery failure is logged and never
// changes the outcome of the verification that triggered it.
type AlertService struct {
	sender    email.Sender
	recipient string
	appName   string
	timeout   time.Duration
	log       *logger.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(sender email.Sender, cfg config.AlertsConfig, log *logger.Logger) *AlertService {
	return &AlertService{
		sender:    sender,
		recipient: cfg.Recipient,
		appName:   "ChatGate",
		timeout:   10 * time.Second,
		log:       log.WithComponent("alert_service"),
	}
}

// NotifyLockout sends a lockout alert in the background. It returns
// immediately; the verification response never waits on mail delivery.
func (s *AlertService) NotifyLockout(userID string, attempts int, until time.Time) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.deliver(ctx, userID, attempts, until); err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("failed to send lockout alert")
			return
		}
		s.log.Info().Str("user_id", userID).Int("attempts", attempts).Msg("lockout alert sent")
	}()
}

func (s *AlertService) deliver(ctx context.Context, userID string, attempts int, until time.Time) error {
	msg := email.Message{
		To:       s.recipient,
		Subject:  fmt.Sprintf("[%s] Account locked after %d failed attempts", s.appName, attempts),
		HTMLBody: email.LockoutAlertHTML(userID, attempts, until, s.appName),
		TextBody: email.LockoutAlertText(userID, attempts, until, s.appName),
	}
	return s.sender.Send(ctx, msg)
}
