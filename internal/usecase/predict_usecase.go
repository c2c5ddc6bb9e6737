package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/entity"
	"github.com/ressKim-io/shopper-predict/api-service/internal/infrastructure/metrics"
)

// Error definitions for predict usecase
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidResponse = errors.New("invalid endpoint response")
)

// PredictInput represents the input for a prediction
type PredictInput struct {
	Features []float64 `json:"features"`
}

// PredictOutput represents the output of a prediction
type PredictOutput struct {
	Prediction float64 `json:"prediction"`
	Confidence string  `json:"confidence"`
}

// PredictUsecase defines the interface for prediction business logic
type PredictUsecase interface {
	Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error)
}

type predictUsecase struct {
	retrier      Retrier
	featureCount int
	logger       *zap.Logger
}

// NewPredictUsecase creates a new predict usecase
func NewPredictUsecase(retrier Retrier, featureCount int, logger *zap.Logger) PredictUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &predictUsecase{
		retrier:      retrier,
		featureCount: featureCount,
		logger:       logger,
	}
}

func (u *predictUsecase) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	if input == nil {
		return nil, ErrInvalidRequest
	}
	if len(input.Features) != u.featureCount {
		return nil, fmt.Errorf("%w: expected %d features, got %d", ErrInvalidRequest, u.featureCount, len(input.Features))
	}

	res, err := u.retrier.Execute(ctx, input.Features)
	if res != nil {
		metrics.AttemptsPerPrediction.Observe(float64(len(res.Attempts)))
	}
	if err != nil {
		return nil, err
	}

	value, err := parsePrediction(res.Result.Body)
	if err != nil {
		u.logger.Error("Endpoint returned an unparseable prediction", zap.Error(err))
		return nil, err
	}

	prediction := entity.NewPrediction(value)
	metrics.PredictionsTotal.WithLabelValues(string(prediction.Confidence)).Inc()

	return &PredictOutput{
		Prediction: prediction.Value,
		Confidence: string(prediction.Confidence),
	}, nil
}

// parsePrediction reads a single finite number from the raw response body
func parsePrediction(body string) (float64, error) {
	raw := strings.TrimSpace(body)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidResponse, raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidResponse, raw)
	}
	return value, nil
}
