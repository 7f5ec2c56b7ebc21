package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/snakevisionhub/backend/internal/apperrors"
	authmw "github.com/snakevisionhub/backend/internal/auth/middleware"
	"github.com/snakevisionhub/backend/internal/models"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register creates a new user account and opens a session for it.
	//
	// The returned string is an opaque bearer token the client presents on
	// subsequent requests. Validation and uniqueness failures are reported
	// through typed errors, see the apperrors package.
	Register(ctx context.Context, req *models.RegisterRequest) (string, *models.User, error)
	// Method Login verifies credentials and opens a fresh session.
	//
	// Any previously issued session for the same user is invalidated.
	// Unknown email and wrong password both yield apperrors.ErrInvalidCredentials.
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error)
	// Method Logout destroys the session identified by token.
	//
	// Logging out an unknown or already destroyed token is not an error.
	Logout(ctx context.Context, token string) error
	// Method VerifyToken resolves a bearer token to its user.
	//
	// Expired sessions are deleted on sight and reported as apperrors.ErrTokenExpired.
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// AuthHandler handles HTTP requests for registration, login and sessions.
type AuthHandler struct {
	BaseHandler
	service AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/verify", h.Verify)
		r.With(authmw.RequireAuth(h.service)).Get("/me", h.Me)
	})
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Description Create a user account and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and return a fresh session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Destroy the session identified by the bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := authmw.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		h.respondError(w, http.StatusBadRequest, "No authorization token provided")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Verify handles GET /api/auth/verify
// @Summary Verify a session token
// @Description Report whether the bearer token belongs to a live session
// @Tags auth
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := authmw.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		h.respondJSON(w, http.StatusOK, map[string]any{
			"valid":   false,
			"message": "No token provided",
		})
		return
	}

	user, err := h.service.VerifyToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			h.respondJSON(w, http.StatusOK, map[string]any{
				"valid":   false,
				"message": "Token expired",
			})
		case errors.Is(err, apperrors.ErrInvalidToken):
			h.respondJSON(w, http.StatusOK, map[string]any{
				"valid":   false,
				"message": "Invalid token",
			})
		default:
			h.respondServiceError(w, r, err)
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  user,
	})
}

// Me handles GET /api/auth/me
// @Summary Get the current user
// @Description Return the user that owns the presented session token
// @Tags auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := authmw.UserFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, apperrors.ErrInvalidToken.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}
