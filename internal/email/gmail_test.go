package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMIME_MultipartAlternative(t *testing.T) {
	raw := buildMIME("ChatGate <alerts@example.com>", Message{
		To:       "ops@example.com",
		Subject:  "[ChatGate] Account locked after 5 failed attempts",
		HTMLBody: "<p>Account user-1 is locked.</p>",
		TextBody: "Account user-1 is locked.",
	})

	assert.True(t, strings.HasPrefix(raw, "From: ChatGate <alerts@example.com>\r\n"))
	assert.Contains(t, raw, "To: ops@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative; boundary="+mimeBoundary)
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.HasSuffix(raw, "--"+mimeBoundary+"--"))

	// Text part must come before the HTML part
	assert.Less(t,
		strings.Index(raw, "Account user-1 is locked."),
		strings.Index(raw, "<p>Account user-1 is locked.</p>"))
}

func TestBuildMIME_TextOnly(t *testing.T) {
	raw := buildMIME("alerts@example.com", Message{
		To:       "ops@example.com",
		Subject:  "[ChatGate] Account locked after 3 failed attempts",
		TextBody: "Account user-2 is locked.",
	})

	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.NotContains(t, raw, "multipart/alternative")
	assert.True(t, strings.HasSuffix(raw, "Account user-2 is locked."))
}

func TestNewGmailSender_RequiresConfig(t *testing.T) {
	_, err := NewGmailSender(context.Background(), GmailConfig{SenderAddress: "alerts@example.com"})
	assert.Error(t, err)

	_, err = NewGmailSender(context.Background(), GmailConfig{CredentialsJSON: "{}"})
	assert.Error(t, err)
}
