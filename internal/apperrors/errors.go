// Package apperrors defines the domain error taxonomy shared by services,
// middleware and handlers. Services return these typed values instead of
// ad-hoc error strings; transport code maps them to HTTP statuses with
// HTTPStatus and to client-safe bodies with Message.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned for a failed login. The message is
	// deliberately identical whether the email is unknown or the password
	// is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when a registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when a registration username is already in use.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrNoToken is returned when a request carries no bearer credential.
	ErrNoToken = errors.New("authorization required")
	// ErrInvalidToken is returned when a presented token matches no session.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a session exists but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrAdminRequired is returned when a valid non-admin identity hits an admin route.
	ErrAdminRequired = errors.New("admin access required")
	// ErrSnakeNotFound is returned for lookups of an absent snake ID.
	ErrSnakeNotFound = errors.New("snake not found")
	// ErrObservationNotFound is returned for lookups of an absent observation ID.
	ErrObservationNotFound = errors.New("observation not found")
	// ErrSpeciesNameTaken is returned on a duplicate species_name insert.
	ErrSpeciesNameTaken = errors.New("a snake with this species name already exists")
	// ErrPredictionUnavailable is returned when the identification service
	// cannot be reached or answers with a failure.
	ErrPredictionUnavailable = errors.New("prediction service unavailable")
)

// ValidationError reports missing or malformed client input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with a formatted message
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPStatus maps a domain error to its HTTP status code.
// Unknown errors are treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrNoToken),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAdminRequired):
		return http.StatusForbidden
	case errors.Is(err, ErrSnakeNotFound),
		errors.Is(err, ErrObservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrSpeciesNameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrPredictionUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err. Internal failures get a
// generic message; the underlying cause belongs in the server log only.
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
