package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/snakevisionhub/backend/internal/middlewares"
)

// SessionCleaner is the interface that wraps the expired session sweep.
type SessionCleaner interface {
	// Method CleanupExpired deletes every session whose expiry has passed
	// and returns the number of rows removed.
	CleanupExpired(ctx context.Context) (int, error)
}

// SessionCleanupHandler handles maintenance sweeps of expired sessions.
// Expired sessions are normally reaped lazily, on the verification attempt
// that finds them; this endpoint lets a cron job clear the long tail of
// sessions whose owners never came back.
type SessionCleanupHandler struct {
	BaseHandler
	cleaner SessionCleaner
	apiKey  string
}

// NewSessionCleanupHandler creates a new session cleanup handler
func NewSessionCleanupHandler(cleaner SessionCleaner, apiKey string, logger *zap.Logger) *SessionCleanupHandler {
	return &SessionCleanupHandler{
		cleaner:     cleaner,
		apiKey:      apiKey,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers session cleanup handler routes
func (h *SessionCleanupHandler) RegisterRoutes(r chi.Router) {
	r.With(middlewares.APIKeyMiddleware(h.apiKey)).Post("/api/sessions/cleanup", h.Cleanup)
}

// Cleanup handles POST /api/sessions/cleanup
// @Summary Delete expired sessions
// @Description Remove every session whose expiry has passed
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/sessions/cleanup [post]
func (h *SessionCleanupHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.cleaner.CleanupExpired(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.logger.Info("session cleanup completed", zap.Int("deleted", deleted))
	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}
