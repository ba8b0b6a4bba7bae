package logic

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cricketml/prematch/internal/artifact"
	"github.com/cricketml/prematch/internal/models"
)

type predictionService struct {
	bundle      *artifact.Bundle
	concurrency int
	logger      *zap.SugaredLogger
	now         func() time.Time
}

func NewPredictionService(bundle *artifact.Bundle, concurrency int, logger *zap.Logger) PredictionService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &predictionService{
		bundle:      bundle,
		concurrency: concurrency,
		logger:      logger.Sugar(),
		now:         time.Now,
	}
}

func (s *predictionService) Predict(ctx context.Context, values map[string]string) (*models.MatchPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	pred, stage, err := s.predict(values)
	if err != nil {
		err = classify(err)
		kind := "internal"
		if IsInputError(err) {
			kind = "input"
		}
		predictionErrors.WithLabelValues(kind).Inc()
		return nil, fmt.Errorf("%s: %w", stage, err)
	}

	predictionDuration.Observe(time.Since(start).Seconds())
	predictionsTotal.WithLabelValues(pred.Winner).Inc()
	predictionConfidence.Observe(float64(pred.Confidence))

	s.logger.Debugw("Prediction served",
		"id", pred.ID,
		"label", pred.Label,
		"confidence", pred.Confidence,
		"duration", time.Since(start),
	)
	return pred, nil
}

// predict runs parse, encode, align and score. It returns the failing stage
// alongside any error.
func (s *predictionService) predict(values map[string]string) (*models.MatchPrediction, string, error) {
	b := s.bundle

	row, err := b.Schema.Parse(values)
	if err != nil {
		return nil, "parse input", err
	}
	encoded, err := b.Encoder.Transform(row)
	if err != nil {
		return nil, "encode", err
	}
	x, err := b.Aligner.Align(encoded)
	if err != nil {
		return nil, "align", err
	}
	label, err := b.Model.Predict(x)
	if err != nil {
		return nil, "predict", err
	}
	proba, err := b.Model.PredictProba(x)
	if err != nil {
		return nil, "predict proba", err
	}

	classes := b.Model.Classes()
	probs := make([]models.ClassProbability, len(proba))
	maxP := 0.0
	for i, p := range proba {
		probs[i] = models.ClassProbability{Label: classes[i], Probability: p}
		maxP = math.Max(maxP, p)
	}

	confidence := Confidence(maxP)
	return &models.MatchPrediction{
		ID:            uuid.NewString(),
		Label:         label,
		Winner:        Winner(label),
		Confidence:    confidence,
		Strength:      Strength(confidence),
		Probabilities: probs,
		FeatureCount:  len(x),
		CreatedAt:     s.now().UTC(),
	}, "", nil
}

func (s *predictionService) PredictBatch(ctx context.Context, rows []map[string]string) ([]*models.MatchPrediction, error) {
	out := make([]*models.MatchPrediction, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, values := range rows {
		i, values := i, values
		g.Go(func() error {
			pred, err := s.Predict(gctx, values)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			out[i] = pred
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Confidence converts the top class probability to a whole percentage,
// rounding down.
func Confidence(maxProbability float64) int {
	if math.IsNaN(maxProbability) {
		return 0
	}
	pct := int(math.Floor(maxProbability * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Strength tags a confidence as High above 65%, Moderate otherwise.
func Strength(confidence int) string {
	if confidence > models.HighConfidenceThreshold {
		return models.StrengthHigh
	}
	return models.StrengthModerate
}

// Winner names the team a label favors.
func Winner(label int) string {
	if label == 1 {
		return "Team 1"
	}
	return "Team 2"
}
