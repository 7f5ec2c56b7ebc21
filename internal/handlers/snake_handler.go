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

// SnakeService is the interface that wraps methods for snake catalog business logic.
type SnakeService interface {
	// Method GetAll retrieves every catalog entry ordered by common name.
	GetAll(ctx context.Context) ([]models.Snake, error)
	// Method GetByID retrieves a single catalog entry.
	//
	// An unknown id is reported as apperrors.ErrSnakeNotFound.
	GetByID(ctx context.Context, id int) (*models.Snake, error)
	// Method Create adds a catalog entry after validating required fields
	// and the venom level. A duplicate species name is reported as
	// apperrors.ErrSpeciesNameTaken.
	Create(ctx context.Context, req *models.CreateSnakeRequest) (*models.Snake, error)
	// Method Update applies a partial update. At least one field must be set.
	Update(ctx context.Context, id int, req *models.UpdateSnakeRequest) error
	// Method Delete removes a catalog entry and returns the removed record.
	Delete(ctx context.Context, id int) (*models.Snake, error)
}

// SnakeHandler handles HTTP requests for the snake catalog.
type SnakeHandler struct {
	BaseHandler
	service  SnakeService
	verifier authmw.TokenVerifier
}

// NewSnakeHandler creates a new snake handler
func NewSnakeHandler(svc SnakeService, verifier authmw.TokenVerifier, logger *zap.Logger) *SnakeHandler {
	return &SnakeHandler{
		service:     svc,
		verifier:    verifier,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all snake handler routes
func (h *SnakeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/snakes", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAdmin(h.verifier))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// GetAll handles GET /api/snakes
// @Summary List snakes
// @Description Get all snake species in the catalog
// @Tags snakes
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/snakes [get]
func (h *SnakeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	snakes, err := h.service.GetAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(snakes),
		"data":    snakes,
	})
}

// GetByID handles GET /api/snakes/{id}
// @Summary Get a snake
// @Description Get a snake species by its ID
// @Tags snakes
// @Accept json
// @Produce json
// @Param id path int true "Snake ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/snakes/{id} [get]
func (h *SnakeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.snakeID(w, r)
	if !ok {
		return
	}

	snake, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    snake,
	})
}

// Create handles POST /api/snakes
// @Summary Add a snake
// @Description Add a snake species to the catalog (admin only)
// @Tags snakes
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body model.CreateSnakeRequest true "Snake data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/snakes [post]
func (h *SnakeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSnakeRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snake, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Snake added successfully",
		"id":      snake.ID,
	})
}

// Update handles PUT /api/snakes/{id}
// @Summary Update a snake
// @Description Update fields of a snake species (admin only)
// @Tags snakes
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Snake ID"
// @Param request body model.UpdateSnakeRequest true "Fields to update"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/snakes/{id} [put]
func (h *SnakeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.snakeID(w, r)
	if !ok {
		return
	}

	var req models.UpdateSnakeRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Snake updated successfully",
	})
}

// Delete handles DELETE /api/snakes/{id}
// @Summary Delete a snake
// @Description Remove a snake species from the catalog (admin only)
// @Tags snakes
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Snake ID"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/snakes/{id} [delete]
func (h *SnakeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.snakeID(w, r)
	if !ok {
		return
	}

	snake, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Snake deleted successfully",
		"deleted": map[string]any{
			"id":          snake.ID,
			"common_name": snake.CommonName,
		},
	})
}

func (h *SnakeHandler) snakeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid snake ID")
		return 0, false
	}
	return id, true
}
