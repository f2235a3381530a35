package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// mimeBoundary separates the text and HTML parts of an alert mail
const mimeBoundary = "chatgate-alert-boundary"

// GmailConfig holds the configuration for the Gmail alert sender.
type GmailConfig struct {
	// CredentialsJSON is a service account credentials JSON with
	// domain-wide delegation for the sender mailbox.
	CredentialsJSON string
	// SenderAddress is the mailbox lockout alerts are sent from.
	SenderAddress string
	// SenderName is the display name for the sender.
	SenderName string
}

// GmailSender delivers lockout alerts through the Gmail API.
type GmailSender struct {
	service *gmail.Service
	from    string
}

// NewGmailSender creates a GmailSender from service account credentials.
func NewGmailSender(ctx context.Context, cfg GmailConfig) (*GmailSender, error) {
	if cfg.CredentialsJSON == "" {
		return nil, fmt.Errorf("gmail: credentials JSON is required")
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	jwtConfig, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
	}

	// Domain-wide delegation impersonates the sender mailbox
	jwtConfig.Subject = cfg.SenderAddress

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	from := cfg.SenderAddress
	if cfg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.SenderName, cfg.SenderAddress)
	}

	return &GmailSender{service: svc, from: from}, nil
}

// Send delivers one alert mail via the Gmail API.
func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	raw := base64.URLEncoding.EncodeToString([]byte(buildMIME(g.from, msg)))

	_, err := g.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail: failed to send alert: %w", err)
	}
	return nil
}

// buildMIME renders the RFC 2822 message body. Alerts carry both an
// HTML and a plain text rendering; when only one body is set a simple
// single-part message is produced instead.
func buildMIME(from string, msg Message) string {
	var b strings.Builder
	writeLine := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	writeLine("From: " + from)
	writeLine("To: " + msg.To)
	writeLine("Subject: " + msg.Subject)
	writeLine("MIME-Version: 1.0")

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		writeLine("Content-Type: multipart/alternative; boundary=" + mimeBoundary)
		writeLine("")
		writeLine("--" + mimeBoundary)
		writeLine("Content-Type: text/plain; charset=UTF-8")
		writeLine("")
		writeLine(msg.TextBody)
		writeLine("--" + mimeBoundary)
		writeLine("Content-Type: text/html; charset=UTF-8")
		writeLine("")
		writeLine(msg.HTMLBody)
		b.WriteString("--" + mimeBoundary + "--")
	case msg.HTMLBody != "":
		writeLine("Content-Type: text/html; charset=UTF-8")
		writeLine("")
		b.WriteString(msg.HTMLBody)
	default:
		writeLine("Content-Type: text/plain; charset=UTF-8")
		writeLine("")
		b.WriteString(msg.TextBody)
	}

	return b.String()
}
