package email

import (
	"fmt"
	"time"
)

// LockoutAlertHTML returns the HTML body for a lockout alert sent to
// the operator mailbox when an account trips the lockout threshold.
func LockoutAlertHTML(userID string, attempts int, until time.Time, appName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Chat security lockout</title>
</head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;background-color:#f4f5f7;">
<table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:40px 0;">
<tr><td align="center">
<table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,0.08);">
  <tr><td style="padding:32px 40px 24px;text-align:center;">
    <h1 style="margin:0;font-size:24px;color:#1a1a2e;">Chat security lockout</h1>
  </td></tr>
  <tr><td style="padding:0 40px;">
    <p style="margin:0 0 24px;font-size:15px;color:#4a4a68;line-height:1.6;">
      An account protected by <strong>%s</strong> has been locked after repeated failed chat password attempts.
    </p>
  </td></tr>
  <tr><td style="padding:0 40px;">
    <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f9f9fc;border-radius:8px;margin:0 0 24px;">
      <tr><td style="padding:16px 20px;font-size:14px;color:#4a4a68;">
        <strong>Account:</strong> %s<br>
        <strong>Failed attempts:</strong> %d<br>
        <strong>Locked until:</strong> %s
      </td></tr>
    </table>
  </td></tr>
  <tr><td style="padding:0 40px 32px;">
    <p style="margin:0;font-size:13px;color:#8888a0;line-height:1.5;">
      The lockout clears automatically at the time above. No action is needed unless the pattern repeats.
    </p>
  </td></tr>
  <tr><td style="padding:16px 40px;background-color:#f9f9fc;border-top:1px solid #eeeef2;">
    <p style="margin:0;font-size:12px;color:#aaaabc;text-align:center;">
      &copy; %s &mdash; This is an automated message, please do not reply.
    </p>
  </td></tr>
</table>
</td></tr>
</table>
</body>
</html>`, appName, userID, attempts, until.UTC().Format(time.RFC1123), appName)
}

// LockoutAlertText returns the plain-text body for a lockout alert.
func LockoutAlertText(userID string, attempts int, until time.Time, appName string) string {
	return fmt.Sprintf(`Chat security lockout

An account protected by %s has been locked after repeated failed chat password attempts.

Account: %s
Failed attempts: %d
Locked until: %s

The lockout clears automatically at the time above. No action is needed unless the pattern repeats.

- %s`, appName, userID, attempts, until.UTC().Format(time.RFC1123), appName)
}
