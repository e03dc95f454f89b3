package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/pkg/predictor"
)

// PredictionService runs the placement predictor against a college dataset.
type PredictionService struct {
	datasets *DatasetService
	logger   zerolog.Logger
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(datasets *DatasetService, logger zerolog.Logger) *PredictionService {
	return &PredictionService{datasets: datasets, logger: logger}
}

// Predict fits the model on the college history and scores the candidate.
// A missing or invalid dataset and single-outcome histories are reported in
// the response status rather than as errors.
func (s *PredictionService) Predict(ctx context.Context, code string, req dto.PredictRequest) (*dto.PredictionResponse, error) {
	ds, _, err := s.datasets.Load(ctx, code)
	if err != nil {
		status, reason, ok := datasetAvailability(err)
		if !ok {
			return nil, err
		}
		return &dto.PredictionResponse{Status: status, Reason: reason}, nil
	}

	prediction, err := predictor.Predict(ds, req.Profile())
	if errors.Is(err, predictor.ErrInsufficientData) {
		return &dto.PredictionResponse{
			Status: dto.StatusInsufficientData,
			Reason: "Not enough data to train the model: the history needs both placed and unplaced students.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("college", code).
		Bool("placed", prediction.Placed).
		Float64("confidence", prediction.Confidence).
		Int("trainingRows", prediction.TrainingRows).
		Msg("Prediction computed")

	return &dto.PredictionResponse{Status: dto.StatusOK, Prediction: prediction}, nil
}
