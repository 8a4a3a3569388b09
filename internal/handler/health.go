package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/macrotrack/internal/respond"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		slog.Error("health check failed", "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
