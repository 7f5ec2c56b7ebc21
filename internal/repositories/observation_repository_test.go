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

// setupObservationRepository creates an observation repository with a mock database
func setupObservationRepository(t *testing.T) (*observationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	repo := NewObservationRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestObservationRepository_GetAll(t *testing.T) {
	columns := []string{
		"id", "snake_id", "species", "length_cm", "weight_g", "location",
		"date_observed", "picture_url", "notes", "common_name", "created_at",
	}
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "success with joined common name",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow(2, 4, "Banded Krait", 120.5, 800.0, "Kuching", "2025-05-30", nil, nil, "Banded Krait", createdAt).
					AddRow(1, nil, "Unknown brown snake", 45.0, nil, "Sibu", "2025-05-29", nil, "seen at dusk", nil, createdAt)
				mock.ExpectQuery(`SELECT o\.id, o\.snake_id, (.+) FROM observations o LEFT JOIN snakes s`).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT o\.id, o\.snake_id, (.+) FROM observations o LEFT JOIN snakes s`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupObservationRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			observations, err := repo.GetAll(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, observations, tt.expectedCount)
				if len(observations) == 2 {
					require.NotNil(t, observations[0].SnakeCommonName)
					assert.Equal(t, "Banded Krait", *observations[0].SnakeCommonName)
					assert.Nil(t, observations[1].SnakeID)
					assert.Nil(t, observations[1].SnakeCommonName)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestObservationRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupObservationRepository(t)
	defer cleanup()

	snakeID := 4
	obs := &models.Observation{
		SnakeID:      &snakeID,
		Species:      "Banded Krait",
		LengthCM:     120.5,
		Location:     "Kuching",
		DateObserved: "2025-05-30",
	}

	mock.ExpectExec(`INSERT INTO observations`).
		WithArgs(&snakeID, "Banded Krait", 120.5, nil, "Kuching", "2025-05-30", nil, nil).
		WillReturnResult(sqlmock.NewResult(9, 1))

	err := repo.Create(context.Background(), obs)

	assert.NoError(t, err)
	assert.Equal(t, 9, obs.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationRepository_Delete(t *testing.T) {
	deleteQuery := regexp.QuoteMeta(`DELETE FROM observations WHERE id = ?`)

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupObservationRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		repo, mock, cleanup := setupObservationRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs(99).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), 99)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupObservationRepository(t)
		defer cleanup()

		mock.ExpectExec(deleteQuery).WithArgs(1).WillReturnError(errors.New("database error"))

		err := repo.Delete(context.Background(), 1)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
