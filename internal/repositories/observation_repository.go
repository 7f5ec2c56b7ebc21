package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snakevisionhub/backend/internal/models"
	"go.uber.org/zap"
)

// observationRepository implements the services.ObservationRepository interface
type observationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewObservationRepository creates a new observation repository
func NewObservationRepository(db *sql.DB, logger *zap.Logger) *observationRepository {
	return &observationRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves all observations newest-first with the catalogued
// common name joined in where the sighting was matched to a species
func (r *observationRepository) GetAll(ctx context.Context) ([]models.Observation, error) {
	query := `
		SELECT o.id, o.snake_id, o.species, o.length_cm, o.weight_g, o.location,
		       DATE_FORMAT(o.date_observed, '%Y-%m-%d'), o.picture_url, o.notes,
		       s.common_name, o.created_at
		FROM observations o
		LEFT JOIN snakes s ON o.snake_id = s.id
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query observations", zap.Error(err))
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var obs models.Observation
		if err := rows.Scan(
			&obs.ID,
			&obs.SnakeID,
			&obs.Species,
			&obs.LengthCM,
			&obs.WeightG,
			&obs.Location,
			&obs.DateObserved,
			&obs.PictureURL,
			&obs.Notes,
			&obs.SnakeCommonName,
			&obs.CreatedAt,
		); err != nil {
			r.logger.Error("failed to scan observation", zap.Error(err))
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, obs)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return observations, nil
}

// Create inserts a new observation into the database and sets the generated ID
func (r *observationRepository) Create(ctx context.Context, obs *models.Observation) error {
	query := `
		INSERT INTO observations
			(snake_id, species, length_cm, weight_g, location, date_observed, picture_url, notes)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		obs.SnakeID,
		obs.Species,
		obs.LengthCM,
		obs.WeightG,
		obs.Location,
		obs.DateObserved,
		obs.PictureURL,
		obs.Notes,
	)
	if err != nil {
		r.logger.Error("failed to create observation", zap.Error(err))
		return fmt.Errorf("failed to create observation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	obs.ID = int(id)
	return nil
}

// Delete removes an observation row by ID.
// Returns a wrapped sql.ErrNoRows when no row existed.
func (r *observationRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM observations WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete observation", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete observation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("observation not found: %w", sql.ErrNoRows)
	}

	return nil
}
