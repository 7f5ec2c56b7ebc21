package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/snakevisionhub/backend/internal/apperrors"
	"github.com/snakevisionhub/backend/internal/auth"
	"github.com/snakevisionhub/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database and sets the
	// generated ID on the passed user.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// If no user with such email exists, an error wrapping sql.ErrNoRows
	// will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// SessionRepository is the interface that wraps methods for Session table data access
type SessionRepository interface {
	// Method Create inserts a new session into the database and sets the
	// generated ID on the passed session.
	Create(ctx context.Context, session *models.Session) error
	// Method GetByTokenWithUser retrieves a session joined to its owning user.
	//
	// If no session with such token exists, an error wrapping sql.ErrNoRows
	// will be returned together with "nil" values.
	GetByTokenWithUser(ctx context.Context, token string) (*models.Session, *models.User, error)
	// Method DeleteByToken deletes a session by token string.
	//
	// Deleting a token that does not exist is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// Method DeleteByUserID deletes all sessions belonging to a user.
	DeleteByUserID(ctx context.Context, userID int) error
	// Method DeleteExpired deletes all sessions expired at the given instant
	// and returns the number of removed rows.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// authService implements registration, login, logout and token verification
// against the user and session stores
type authService struct {
	userRepo       UserRepository
	sessionRepo    SessionRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// minPasswordLength is the minimum accepted password length at registration
const minPasswordLength = 6

// Register creates a new user account and issues its first session token
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, *models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return "", nil, apperrors.NewValidation("username, email, and password are required")
	}
	if !emailRegex.MatchString(email) {
		return "", nil, apperrors.NewValidation("invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return "", nil, apperrors.NewValidation("password must be at least %d characters", minPasswordLength)
	}

	// Uniqueness probes run email-first; the first violation found is the
	// one reported even when both would conflict
	emailExists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailExists {
		return "", nil, apperrors.ErrEmailTaken
	}

	usernameExists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameExists {
		return "", nil, apperrors.ErrUsernameTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Login authenticates a user by email and password and rotates their session
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if email == "" || req.Password == "" {
		return "", nil, apperrors.NewValidation("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// An unknown email reports the same error as a wrong password
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Logout deletes the session matching the token. Logging out an unknown or
// already-deleted token still succeeds.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// VerifyToken resolves a session token to the owning user. An unknown token
// yields apperrors.ErrInvalidToken; an expired session is deleted on the
// spot and yields apperrors.ErrTokenExpired.
func (s *authService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidToken
	}

	session, user, err := s.sessionRepo.GetByTokenWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		// Lazy expiry: the row is removed the first time the expired token
		// is presented
		if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err), zap.Int("userId", session.UserID))
		}
		return nil, apperrors.ErrTokenExpired
	}

	return user, nil
}

// CleanupExpired removes every expired session row and returns the count
func (s *authService) CleanupExpired(ctx context.Context) (int, error) {
	return s.sessionRepo.DeleteExpired(ctx, time.Now())
}

// issueSession rotates the user's sessions and issues a fresh token.
// The delete-then-insert pair is not transactional; two concurrent logins
// for the same user can interleave and briefly leave two live sessions.
func (s *authService) issueSession(ctx context.Context, userID int) (string, error) {
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return "", err
	}

	token, expiresAt, err := s.tokenGenerator.Generate()
	if err != nil {
		return "", err
	}

	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}
