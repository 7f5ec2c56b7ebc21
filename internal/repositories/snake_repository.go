package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/snakevisionhub/backend/internal/models"
	"go.uber.org/zap"
)

// snakeRepository implements the services.SnakeRepository interface
type snakeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSnakeRepository creates a new snake repository
func NewSnakeRepository(db *sql.DB, logger *zap.Logger) *snakeRepository {
	return &snakeRepository{
		db:     db,
		logger: logger,
	}
}

const snakeColumns = `id, common_name, species_name, venomous, status,
		       distribution, habitat, description, ecological_role, image_url,
		       created_at, updated_at`

// GetAll retrieves all snakes ordered by common name
func (r *snakeRepository) GetAll(ctx context.Context) ([]models.Snake, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM snakes
		ORDER BY common_name ASC
	`, snakeColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query snakes", zap.Error(err))
		return nil, fmt.Errorf("failed to query snakes: %w", err)
	}
	defer rows.Close()

	var snakes []models.Snake
	for rows.Next() {
		var snake models.Snake
		if err := scanSnake(rows.Scan, &snake); err != nil {
			r.logger.Error("failed to scan snake", zap.Error(err))
			return nil, fmt.Errorf("failed to scan snake: %w", err)
		}
		snakes = append(snakes, snake)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return snakes, nil
}

// GetByID retrieves a snake by its ID
func (r *snakeRepository) GetByID(ctx context.Context, id int) (*models.Snake, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM snakes
		WHERE id = ?
		LIMIT 1
	`, snakeColumns)

	snake := &models.Snake{}
	err := scanSnake(r.db.QueryRowContext(ctx, query, id).Scan, snake)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snake not found: %w", err)
	}
	if err != nil {
		r.logger.Error("failed to get snake by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get snake by id: %w", err)
	}

	return snake, nil
}

// GetIDByCommonName resolves a snake ID from its common name
func (r *snakeRepository) GetIDByCommonName(ctx context.Context, commonName string) (int, error) {
	query := `SELECT id FROM snakes WHERE common_name = ? LIMIT 1`

	var id int
	err := r.db.QueryRowContext(ctx, query, commonName).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("snake not found: %w", err)
	}
	if err != nil {
		r.logger.Error("failed to get snake id by common name", zap.Error(err))
		return 0, fmt.Errorf("failed to get snake id by common name: %w", err)
	}

	return id, nil
}

// Create inserts a new snake into the database and sets the generated ID
func (r *snakeRepository) Create(ctx context.Context, snake *models.Snake) error {
	query := `
		INSERT INTO snakes
			(common_name, species_name, venomous, status, distribution, habitat, description, ecological_role, image_url)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		snake.CommonName,
		snake.SpeciesName,
		snake.Venomous,
		snake.Status,
		snake.Distribution,
		snake.Habitat,
		snake.Description,
		snake.EcologicalRole,
		snake.ImageURL,
	)
	if err != nil {
		r.logger.Error("failed to create snake", zap.Error(err))
		return fmt.Errorf("failed to create snake: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	snake.ID = int(id)
	return nil
}

// Update applies the non-nil fields of req to a snake row.
// Returns a wrapped sql.ErrNoRows when no row was changed.
func (r *snakeRepository) Update(ctx context.Context, id int, req *models.UpdateSnakeRequest) error {
	var setClauses []string
	var args []any

	addField := func(column string, value any) {
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}

	if req.CommonName != nil {
		addField("common_name", *req.CommonName)
	}
	if req.SpeciesName != nil {
		addField("species_name", *req.SpeciesName)
	}
	if req.Venomous != nil {
		addField("venomous", *req.Venomous)
	}
	if req.Status != nil {
		addField("status", *req.Status)
	}
	if req.Distribution != nil {
		addField("distribution", *req.Distribution)
	}
	if req.Habitat != nil {
		addField("habitat", *req.Habitat)
	}
	if req.Description != nil {
		addField("description", *req.Description)
	}
	if req.EcologicalRole != nil {
		addField("ecological_role", *req.EcologicalRole)
	}
	if req.ImageURL != nil {
		addField("image_url", *req.ImageURL)
	}

	if len(setClauses) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`UPDATE snakes SET %s WHERE id = ?`, strings.Join(setClauses, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update snake", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update snake: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("snake not found: %w", sql.ErrNoRows)
	}

	return nil
}

// Delete removes a snake row by ID.
// Returns a wrapped sql.ErrNoRows when no row existed.
func (r *snakeRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM snakes WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete snake", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete snake: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("snake not found: %w", sql.ErrNoRows)
	}

	return nil
}

// scanSnake scans a full snake row using the provided scan function
func scanSnake(scan func(dest ...any) error, snake *models.Snake) error {
	return scan(
		&snake.ID,
		&snake.CommonName,
		&snake.SpeciesName,
		&snake.Venomous,
		&snake.Status,
		&snake.Distribution,
		&snake.Habitat,
		&snake.Description,
		&snake.EcologicalRole,
		&snake.ImageURL,
		&snake.CreatedAt,
		&snake.UpdatedAt,
	)
}
