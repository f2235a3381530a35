package email

import "context"

// Sender is the interface alert mail providers implement. The rest of
// the application depends on this, not on Gmail, so the provider can be
// swapped without touching the alerting logic.
type Sender interface {
	// Send sends an email to the specified recipient.
	Send(ctx context.Context, msg Message) error
}

// Message represents an email message to be sent.
type Message struct {
	To       string // recipient email address
	Subject  string // email subject
	HTMLBody string // HTML email body
	TextBody string // plain-text fallback body
}
