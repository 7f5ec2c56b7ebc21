package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmw "github.com/snakevisionhub/backend/internal/auth/middleware"
	"github.com/snakevisionhub/backend/internal/models"
)

// ObservationService is the interface that wraps methods for field observation business logic.
type ObservationService interface {
	// Method GetAll retrieves every observation, newest first, each joined
	// with the common name of its linked catalog snake when one exists.
	GetAll(ctx context.Context) ([]models.Observation, error)
	// Method Create records a field observation after validating required
	// fields, the length and the observation date. The species name is
	// matched against the catalog on a best effort basis.
	Create(ctx context.Context, req *models.CreateObservationRequest) (*models.Observation, error)
	// Method Delete removes an observation. An unknown id is reported as
	// apperrors.ErrObservationNotFound.
	Delete(ctx context.Context, id int) error
}

// ObservationHandler handles HTTP requests for field observations.
type ObservationHandler struct {
	BaseHandler
	service  ObservationService
	verifier authmw.TokenVerifier
}

// NewObservationHandler creates a new observation handler
func NewObservationHandler(svc ObservationService, verifier authmw.TokenVerifier, logger *zap.Logger) *ObservationHandler {
	return &ObservationHandler{
		service:     svc,
		verifier:    verifier,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all observation handler routes
func (h *ObservationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/observations", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.With(authmw.RequireAuth(h.verifier)).Delete("/{id}", h.Delete)
	})
}

// GetAll handles GET /api/observations
// @Summary List observations
// @Description Get all field observations, newest first
// @Tags observations
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/observations [get]
func (h *ObservationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	observations, err := h.service.GetAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(observations),
		"data":    observations,
	})
}

// Create handles POST /api/observations
// @Summary Record an observation
// @Description Record a new field observation
// @Tags observations
// @Accept json
// @Produce json
// @Param request body model.CreateObservationRequest true "Observation data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/observations [post]
func (h *ObservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateObservationRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	observation, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Observation recorded successfully",
		"id":      observation.ID,
	})
}

// Delete handles DELETE /api/observations/{id}
// @Summary Delete an observation
// @Description Remove a field observation (authenticated users)
// @Tags observations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Observation ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/observations/{id} [delete]
func (h *ObservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid observation ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Observation deleted successfully",
	})
}
