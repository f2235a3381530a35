package handler

import (
	"context"
	"net/http"
)

const serverVersion = "0.1.0"

type healthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// checkDependencies pings the two stores the gate cannot run without:
// postgres holds profiles and the security log, redis holds session
// tokens and rate limit counters.
func (h *Handler) checkDependencies(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string, 2)
	ok := true

	if err := h.db.HealthCheck(ctx); err != nil {
		checks["postgres"] = "unreachable"
		ok = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := h.rdb.HealthCheck(ctx); err != nil {
		checks["redis"] = "unreachable"
		ok = false
	} else {
		checks["redis"] = "ok"
	}

	return checks, ok
}

// Health reports per-dependency status for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks, ok := h.checkDependencies(r.Context())

	resp := healthStatus{Status: "ok", Version: serverVersion, Checks: checks}
	status := http.StatusOK
	if !ok {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

// Ready gates load balancer traffic: the server only accepts requests
// once both stores answer.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.checkDependencies(r.Context()); !ok {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "A required dependency is unreachable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
