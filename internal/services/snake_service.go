package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/snakevisionhub/backend/internal/apperrors"
	"github.com/snakevisionhub/backend/internal/models"
	"go.uber.org/zap"
)

// SnakeRepository is the interface that wraps methods for Snake table data access
type SnakeRepository interface {
	// Method GetAll retrieves all snakes ordered by common name.
	GetAll(ctx context.Context) ([]models.Snake, error)
	// Method GetByID retrieves a snake by its ID.
	//
	// If no snake with such ID exists, an error wrapping sql.ErrNoRows
	// will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Snake, error)
	// Method Create inserts a new snake and sets the generated ID.
	Create(ctx context.Context, snake *models.Snake) error
	// Method Update applies the non-nil fields of req to a snake row.
	//
	// If no row was changed, an error wrapping sql.ErrNoRows will be returned.
	Update(ctx context.Context, id int, req *models.UpdateSnakeRequest) error
	// Method Delete removes a snake row by ID.
	//
	// If no row existed, an error wrapping sql.ErrNoRows will be returned.
	Delete(ctx context.Context, id int) error
}

// snakeService implements the species catalog business logic
type snakeService struct {
	repo   SnakeRepository
	logger *zap.Logger
}

// NewSnakeService creates a new snake service
func NewSnakeService(repo SnakeRepository, logger *zap.Logger) *snakeService {
	return &snakeService{
		repo:   repo,
		logger: logger,
	}
}

// GetAll retrieves all catalogued snakes
func (s *snakeService) GetAll(ctx context.Context) ([]models.Snake, error) {
	return s.repo.GetAll(ctx)
}

// GetByID retrieves a single snake
func (s *snakeService) GetByID(ctx context.Context, id int) (*models.Snake, error) {
	snake, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrSnakeNotFound
		}
		return nil, err
	}
	return snake, nil
}

// Create adds a new species to the catalog
func (s *snakeService) Create(ctx context.Context, req *models.CreateSnakeRequest) (*models.Snake, error) {
	if req.CommonName == "" || req.SpeciesName == "" || req.Venomous == "" || req.Status == "" {
		return nil, apperrors.NewValidation("missing required fields: common_name, species_name, venomous, status")
	}
	if !models.ValidVenomLevel(req.Venomous) {
		return nil, apperrors.NewValidation("venomous must be one of: Non-venomous, Mildly venomous, Highly venomous")
	}

	snake := &models.Snake{
		CommonName:     req.CommonName,
		SpeciesName:    req.SpeciesName,
		Venomous:       models.VenomLevel(req.Venomous),
		Status:         req.Status,
		Distribution:   req.Distribution,
		Habitat:        req.Habitat,
		Description:    req.Description,
		EcologicalRole: req.EcologicalRole,
		ImageURL:       req.ImageURL,
	}

	if err := s.repo.Create(ctx, snake); err != nil {
		if isDuplicateEntry(err) {
			return nil, apperrors.ErrSpeciesNameTaken
		}
		return nil, err
	}

	return snake, nil
}

// Update applies a partial update to a catalogued species
func (s *snakeService) Update(ctx context.Context, id int, req *models.UpdateSnakeRequest) error {
	if !hasUpdateFields(req) {
		return apperrors.NewValidation("no fields to update")
	}
	if req.Venomous != nil && !models.ValidVenomLevel(*req.Venomous) {
		return apperrors.NewValidation("venomous must be one of: Non-venomous, Mildly venomous, Highly venomous")
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return apperrors.ErrSnakeNotFound
		case isDuplicateEntry(err):
			return apperrors.ErrSpeciesNameTaken
		}
		return err
	}

	return nil
}

// Delete removes a species from the catalog and returns the deleted record
func (s *snakeService) Delete(ctx context.Context, id int) (*models.Snake, error) {
	snake, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrSnakeNotFound
		}
		return nil, err
	}

	return snake, nil
}

// hasUpdateFields reports whether at least one field of req is set
func hasUpdateFields(req *models.UpdateSnakeRequest) bool {
	return req.CommonName != nil ||
		req.SpeciesName != nil ||
		req.Venomous != nil ||
		req.Status != nil ||
		req.Distribution != nil ||
		req.Habitat != nil ||
		req.Description != nil ||
		req.EcologicalRole != nil ||
		req.ImageURL != nil
}

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a unique constraint violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
