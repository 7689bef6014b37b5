package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/unifind/unifind/infrastructure/http/response"
)

// Pinger reports whether a backing store answers.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			status[name] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		response.WriteJSON(w, http.StatusServiceUnavailable, response.Envelope{Status: false, Message: "unhealthy", Data: status})
		return
	}
	response.Success(w, http.StatusOK, "healthy", status)
}
