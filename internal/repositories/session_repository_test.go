package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/snakevisionhub/backend/internal/models"
)

// setupSessionRepository creates a session repository with a mock database
func setupSessionRepository(t *testing.T) (*sessionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	repo := NewSessionRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestSessionRepository_Create(t *testing.T) {
	insertQuery := regexp.QuoteMeta(`INSERT INTO sessions (user_id, token, expires_at)`)
	expiresAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		session       *models.Session
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			session: &models.Session{
				UserID:    1,
				Token:     "aabbcc",
				ExpiresAt: expiresAt,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insertQuery).
					WithArgs(1, "aabbcc", expiresAt).
					WillReturnResult(sqlmock.NewResult(3, 1))
			},
			expectedID: 3,
		},
		{
			name: "database error",
			session: &models.Session{
				UserID:    1,
				Token:     "aabbcc",
				ExpiresAt: expiresAt,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insertQuery).
					WithArgs(1, "aabbcc", expiresAt).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSessionRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.session)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.session.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_GetByTokenWithUser(t *testing.T) {
	selectQuery := regexp.QuoteMeta(`SELECT s.id, s.user_id, s.token, s.expires_at,`)
	expiresAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		token         string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		noRows        bool
	}{
		{
			name:  "success",
			token: "aabbcc",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{
					"s.id", "s.user_id", "s.token", "s.expires_at",
					"u.id", "u.username", "u.email", "u.role", "u.created_at",
				}).AddRow(3, 1, "aabbcc", expiresAt, 1, "alice", "alice@example.com", "user", createdAt)
				mock.ExpectQuery(selectQuery).WithArgs("aabbcc").WillReturnRows(rows)
			},
		},
		{
			name:  "unknown token",
			token: "unknown",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectQuery).WithArgs("unknown").WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			noRows:        true,
		},
		{
			name:  "database error",
			token: "aabbcc",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectQuery).WithArgs("aabbcc").WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSessionRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			session, user, err := repo.GetByTokenWithUser(context.Background(), tt.token)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, session)
				assert.Nil(t, user)
				if tt.noRows {
					assert.ErrorIs(t, err, sql.ErrNoRows)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, session)
				require.NotNil(t, user)
				assert.Equal(t, tt.token, session.Token)
				assert.Equal(t, session.UserID, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_DeleteByToken(t *testing.T) {
	deleteQuery := regexp.QuoteMeta(`DELETE FROM sessions WHERE token = ?`)

	t.Run("deletes existing token", func(t *testing.T) {
		repo, mock, cleanup := setupSessionRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs("aabbcc").WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteByToken(context.Background(), "aabbcc")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown token is not an error", func(t *testing.T) {
		repo, mock, cleanup := setupSessionRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs("unknown").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteByToken(context.Background(), "unknown")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupSessionRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs("aabbcc").WillReturnError(errors.New("database error"))

		err := repo.DeleteByToken(context.Background(), "aabbcc")

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepository_DeleteByUserID(t *testing.T) {
	deleteQuery := regexp.QuoteMeta(`DELETE FROM sessions WHERE user_id = ?`)

	repo, mock, cleanup := setupSessionRepository(t)
	defer cleanup()

	mock.ExpectExec(deleteQuery).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeleteByUserID(context.Background(), 1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	deleteQuery := regexp.QuoteMeta(`DELETE FROM sessions WHERE expires_at <= ?`)
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	t.Run("returns removed row count", func(t *testing.T) {
		repo, mock, cleanup := setupSessionRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 5))

		deleted, err := repo.DeleteExpired(context.Background(), now)

		assert.NoError(t, err)
		assert.Equal(t, 5, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupSessionRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs(now).WillReturnError(errors.New("database error"))

		_, err := repo.DeleteExpired(context.Background(), now)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
