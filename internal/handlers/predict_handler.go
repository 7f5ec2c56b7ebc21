package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmw "github.com/snakevisionhub/backend/internal/auth/middleware"
	"github.com/snakevisionhub/backend/internal/models"
)

// PredictionService is the interface that wraps methods for species identification.
type PredictionService interface {
	// Method Predict forwards a base64 encoded image to the identification
	// service and returns its ranked candidate species.
	Predict(ctx context.Context, image string) ([]models.Prediction, error)
	// Method Health reports whether the identification service is reachable.
	Health(ctx context.Context) (map[string]any, error)
}

// PredictHandler proxies HTTP requests to the species identification service.
type PredictHandler struct {
	BaseHandler
	service  PredictionService
	verifier authmw.TokenVerifier
}

// NewPredictHandler creates a new prediction handler
func NewPredictHandler(svc PredictionService, verifier authmw.TokenVerifier, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{
		service:     svc,
		verifier:    verifier,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all prediction handler routes
func (h *PredictHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/predict", func(r chi.Router) {
		r.With(authmw.OptionalAuth(h.verifier)).Post("/", h.Predict)
		r.Get("/health", h.Health)
	})
}

// Predict handles POST /api/predict
// @Summary Identify a snake from a photo
// @Description Forward a base64 encoded image to the identification service
// @Tags predict
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param request body model.PredictRequest true "Base64 encoded image"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/predict [post]
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if user, ok := authmw.UserFromContext(r.Context()); ok {
		h.logger.Info("prediction requested", zap.Int("user_id", user.ID))
	}

	predictions, err := h.service.Predict(r.Context(), req.Image)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"predictions": predictions,
	})
}

// Health handles GET /api/predict/health
// @Summary Identification service health
// @Description Report whether the identification service is reachable
// @Tags predict
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/predict/health [get]
func (h *PredictHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Health(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"upstream": status,
	})
}
