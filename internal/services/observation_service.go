package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/snakevisionhub/backend/internal/apperrors"
	"github.com/snakevisionhub/backend/internal/models"
	"go.uber.org/zap"
)

// ObservationRepository is the interface that wraps methods for Observation table data access
type ObservationRepository interface {
	// Method GetAll retrieves all observations newest-first.
	GetAll(ctx context.Context) ([]models.Observation, error)
	// Method Create inserts a new observation and sets the generated ID.
	Create(ctx context.Context, obs *models.Observation) error
	// Method Delete removes an observation row by ID.
	//
	// If no row existed, an error wrapping sql.ErrNoRows will be returned.
	Delete(ctx context.Context, id int) error
}

// SnakeResolver resolves a species common name to its catalog ID.
type SnakeResolver interface {
	// Method GetIDByCommonName resolves a snake ID from its common name.
	//
	// If no snake with such name exists, an error wrapping sql.ErrNoRows
	// will be returned.
	GetIDByCommonName(ctx context.Context, commonName string) (int, error)
}

// observationService implements the field observation business logic
type observationService struct {
	repo          ObservationRepository
	snakeResolver SnakeResolver
	logger        *zap.Logger
}

// NewObservationService creates a new observation service
func NewObservationService(repo ObservationRepository, snakeResolver SnakeResolver, logger *zap.Logger) *observationService {
	return &observationService{
		repo:          repo,
		snakeResolver: snakeResolver,
		logger:        logger,
	}
}

// dateObservedLayout is the accepted wire format for observation dates
const dateObservedLayout = "2006-01-02"

// GetAll retrieves all recorded observations
func (s *observationService) GetAll(ctx context.Context) ([]models.Observation, error) {
	return s.repo.GetAll(ctx)
}

// Create records a new field observation, resolving the catalogued species
// by common name best-effort: an unmatched species leaves snake_id unset.
func (s *observationService) Create(ctx context.Context, req *models.CreateObservationRequest) (*models.Observation, error) {
	if req.Species == "" || req.Location == "" || req.DateObserved == "" {
		return nil, apperrors.NewValidation("missing required fields: species, length, location, date_observed")
	}
	if req.Length <= 0 {
		return nil, apperrors.NewValidation("length must be a positive number of centimeters")
	}
	if _, err := time.Parse(dateObservedLayout, req.DateObserved); err != nil {
		return nil, apperrors.NewValidation("date_observed must be formatted as YYYY-MM-DD")
	}

	var snakeID *int
	id, err := s.snakeResolver.GetIDByCommonName(ctx, req.Species)
	switch {
	case err == nil:
		snakeID = &id
	case errors.Is(err, sql.ErrNoRows):
		// Unmatched species is fine, the sighting is stored without a catalog link
	default:
		return nil, err
	}

	obs := &models.Observation{
		SnakeID:      snakeID,
		Species:      req.Species,
		LengthCM:     req.Length,
		WeightG:      req.Weight,
		Location:     req.Location,
		DateObserved: req.DateObserved,
		PictureURL:   req.PictureURL,
		Notes:        req.Notes,
	}

	if err := s.repo.Create(ctx, obs); err != nil {
		return nil, err
	}

	return obs, nil
}

// Delete removes a recorded observation
func (s *observationService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrObservationNotFound
		}
		return err
	}
	return nil
}
