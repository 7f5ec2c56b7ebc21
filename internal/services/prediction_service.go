package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/snakevisionhub/backend/internal/apperrors"
	"github.com/snakevisionhub/backend/internal/models"
	"go.uber.org/zap"
)

// predictionService proxies image classification requests to the external
// ML service. The upstream is opaque: its ranked guesses are passed through
// unmodified.
type predictionService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewPredictionService creates a new prediction service proxy
func NewPredictionService(baseURL string, logger *zap.Logger) *predictionService {
	return &predictionService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// predictUpstreamResponse mirrors the ML service's /predict response body
type predictUpstreamResponse struct {
	Success     bool                `json:"success"`
	Predictions []models.Prediction `json:"predictions"`
	Message     string              `json:"message"`
}

// Predict forwards a base64-encoded image to the ML service and returns its
// ranked species guesses. A data URL prefix on the image is tolerated, the
// upstream strips it itself.
func (s *predictionService) Predict(ctx context.Context, image string) ([]models.Prediction, error) {
	if image == "" {
		return nil, apperrors.NewValidation("no image provided")
	}

	body, err := json.Marshal(models.PredictRequest{Image: image})
	if err != nil {
		return nil, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("prediction service unreachable", zap.Error(err))
		return nil, apperrors.ErrPredictionUnavailable
	}
	defer resp.Body.Close()

	var upstream predictUpstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		s.logger.Error("failed to decode prediction response", zap.Error(err))
		return nil, apperrors.ErrPredictionUnavailable
	}

	if resp.StatusCode != http.StatusOK || !upstream.Success {
		s.logger.Error("prediction service returned failure",
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstream.Message),
		)
		return nil, apperrors.ErrPredictionUnavailable
	}

	return upstream.Predictions, nil
}

// Health reports whether the ML service answers its health check
func (s *predictionService) Health(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("prediction service unreachable", zap.Error(err))
		return nil, apperrors.ErrPredictionUnavailable
	}
	defer resp.Body.Close()

	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		s.logger.Error("failed to decode health response", zap.Error(err))
		return nil, apperrors.ErrPredictionUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrPredictionUnavailable
	}

	return status, nil
}
