package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/IsmaelKabore/SkillHub/internal/repository"
)

// healthTimeout bounds the database ping behind GET /healthz.
const healthTimeout = 2 * time.Second

// HomeHandler serves the unauthenticated status endpoints.
type HomeHandler struct {
	base
	db repository.Pinger
}

// NewHomeHandler creates a HomeHandler. db is pinged by HandleHealth.
func NewHomeHandler(db repository.Pinger, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{base: base{logger: logger}, db: db}
}

// HandleHome answers GET / with a plain-text liveness line.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("SkillHub API is running"))
}

// HandleHealth answers GET /healthz: 200 {"status":"ok"} when the database
// answers a ping, 503 otherwise.
func (h *HomeHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "database unavailable"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleNotFound replaces chi's plain-text 404 so unknown routes get the
// same {"error": ...} body as everything else.
func (h *HomeHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found"})
}

// HandleMethodNotAllowed does the same for a known path with the wrong verb.
func (h *HomeHandler) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
}
