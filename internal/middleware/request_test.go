package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP_UntrustedIgnoresForwardingHeaders(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/security/verify", nil)
	r.RemoteAddr = "198.51.100.7:52214"
	r.Header.Set("X-Forwarded-For", "203.0.113.99")
	r.Header.Set("X-Real-IP", "203.0.113.98")

	// Direct connections must not let the client pick its own address
	assert.Equal(t, "198.51.100.7", ClientIP(r, false))
}

func TestClientIP_TrustedTakesFirstForwardedHop(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/security/verify", nil)
	r.RemoteAddr = "10.0.0.1:9000"
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.2, 10.0.0.1")

	assert.Equal(t, "203.0.113.5", ClientIP(r, true))
}

func TestClientIP_TrustedFallsBackToRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/security/status", nil)
	r.RemoteAddr = "10.0.0.1:9000"
	r.Header.Set("X-Real-IP", "203.0.113.6")

	assert.Equal(t, "203.0.113.6", ClientIP(r, true))
}

func TestClientIP_StripsPortFromRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/security/status", nil)
	r.RemoteAddr = "[2001:db8::1]:443"

	assert.Equal(t, "2001:db8::1", ClientIP(r, true))
}
