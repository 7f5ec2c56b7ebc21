// Package middleware provides the bearer-token authorization middleware
// for protected routes
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/snakevisionhub/backend/internal/apperrors"
	"github.com/snakevisionhub/backend/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// TokenVerifier resolves a bearer token to its user identity.
type TokenVerifier interface {
	// Method VerifyToken resolves a session token to the owning user.
	//
	// An unknown token yields apperrors.ErrInvalidToken and an expired one
	// apperrors.ErrTokenExpired; any other error is an infrastructure failure.
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// ExtractBearerToken pulls the token out of an Authorization header of the
// form "Bearer <token>". The scheme is matched case-insensitively and
// surrounding whitespace around the token is tolerated. Returns "" when the
// header is absent or malformed.
func ExtractBearerToken(authHeader string) string {
	const scheme = "bearer"

	header := strings.TrimSpace(authHeader)
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return ""
	}

	rest := header[len(scheme):]
	if rest[0] != ' ' && rest[0] != '\t' {
		return ""
	}

	return strings.TrimSpace(rest)
}

// RequireAuth validates the bearer token against the session store and puts
// the resolved identity into the request context. Requests without a valid
// token are rejected with 401 before the wrapped handler runs.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(w, r, verifier)
			if err != nil {
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RequireAdmin validates the bearer token like RequireAuth and additionally
// requires the admin role. Token validity is established first, so an
// expired admin token is rejected with 401, not 403.
func RequireAdmin(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(w, r, verifier)
			if err != nil {
				return
			}

			if user.Role != models.RoleAdmin {
				respondError(w, http.StatusForbidden, apperrors.ErrAdminRequired.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuth performs the same token resolution as RequireAuth but never
// rejects: when the token is absent or invalid the wrapped handler runs
// without an identity in context.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// authenticate resolves the request's bearer token, writing the rejection
// response itself when resolution fails
func authenticate(w http.ResponseWriter, r *http.Request, verifier TokenVerifier) (*models.User, error) {
	token := ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		respondError(w, http.StatusUnauthorized, apperrors.ErrNoToken.Error())
		return nil, apperrors.ErrNoToken
	}

	user, err := verifier.VerifyToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidToken), errors.Is(err, apperrors.ErrTokenExpired):
			respondError(w, http.StatusUnauthorized, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return nil, err
	}

	return user, nil
}

// UserFromContext retrieves the authenticated identity from context
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
