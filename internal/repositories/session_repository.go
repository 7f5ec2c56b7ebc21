package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snakevisionhub/backend/internal/models"
	"go.uber.org/zap"
)

// sessionRepository implements the services.SessionRepository interface
type sessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new session into the database and sets the generated ID
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, session.UserID, session.Token, session.ExpiresAt)
	if err != nil {
		r.logger.Error("failed to create session", zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	session.ID = int(id)
	return nil
}

// GetByToken retrieves a session by its token string
func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions
		WHERE token = ?
		LIMIT 1
	`

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err != nil {
		r.logger.Error("failed to get session by token", zap.Error(err))
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	return session, nil
}

// GetByTokenWithUser retrieves a session joined to its owning user
func (r *sessionRepository) GetByTokenWithUser(ctx context.Context, token string) (*models.Session, *models.User, error) {
	query := `
		SELECT s.id, s.user_id, s.token, s.expires_at,
		       u.id, u.username, u.email, u.role, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ?
		LIMIT 1
	`

	session := &models.Session{}
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.ExpiresAt,
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("session not found: %w", err)
	}
	if err != nil {
		r.logger.Error("failed to get session with user", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to get session with user: %w", err)
	}

	return session, user, nil
}

// DeleteByToken deletes a session by its token string.
// Deleting a token that does not exist is not an error.
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = ?`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		r.logger.Error("failed to delete session by token", zap.Error(err))
		return fmt.Errorf("failed to delete session by token: %w", err)
	}

	return nil
}

// DeleteByUserID deletes all sessions belonging to a user.
// Called before issuing a new session so a user holds at most one live token.
func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID int) error {
	query := `DELETE FROM sessions WHERE user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		r.logger.Error("failed to delete sessions by user id", zap.Error(err), zap.Int("userId", userID))
		return fmt.Errorf("failed to delete sessions by user id: %w", err)
	}

	return nil
}

// DeleteExpired deletes all sessions whose expiry is at or before now
// and returns the number of removed rows
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	query := `DELETE FROM sessions WHERE expires_at <= ?`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		r.logger.Error("failed to delete expired sessions", zap.Error(err))
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
