package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/email"
	"github.com/chatgate/chatgate/internal/logger"
)

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestAlertService_Deliver(t *testing.T) {
	sender := &fakeSender{}
	cfg := config.AlertsConfig{Enabled: true, Recipient: "ops@example.com"}
	svc := NewAlertService(sender, cfg, logger.New("disabled", "json"))

	until := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)
	err := svc.deliver(context.Background(), "user-1", 5, until)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "ops@example.com", msg.To)
	assert.Contains(t, msg.Subject, "5 failed attempts")
	assert.Contains(t, msg.TextBody, "user-1")
	assert.Contains(t, msg.TextBody, "Sun, 01 Jun 2025 12:15:00 UTC")
	assert.Contains(t, msg.HTMLBody, "user-1")
}

func TestAlertService_DeliverError(t *testing.T) {
	sender := &fakeSender{err: assert.AnError}
	svc := NewAlertService(sender, config.AlertsConfig{Recipient: "ops@example.com"}, logger.New("disabled", "json"))

	err := svc.deliver(context.Background(), "user-1", 3, time.Now())
	assert.Error(t, err)
}
