package handlers

import (
	"context"

	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/models"
	"github.com/cricketml/prematch/internal/preprocess"
)

// MockPredictionService
type MockPredictionService struct {
	PredictFunc      func(ctx context.Context, values map[string]string) (*models.MatchPrediction, error)
	PredictBatchFunc func(ctx context.Context, rows []map[string]string) ([]*models.MatchPrediction, error)
}

func (m *MockPredictionService) Predict(ctx context.Context, values map[string]string) (*models.MatchPrediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, values)
	}
	return &models.MatchPrediction{ID: "mock", Label: 1, Winner: "Team 1", Confidence: 70, Strength: models.StrengthHigh}, nil
}

func (m *MockPredictionService) PredictBatch(ctx context.Context, rows []map[string]string) ([]*models.MatchPrediction, error) {
	if m.PredictBatchFunc != nil {
		return m.PredictBatchFunc(ctx, rows)
	}
	out := make([]*models.MatchPrediction, len(rows))
	for i := range rows {
		out[i] = &models.MatchPrediction{ID: "mock", Label: 0, Winner: "Team 2", Confidence: 55, Strength: models.StrengthModerate}
	}
	return out, nil
}

// MockDatasetService
type MockDatasetService struct {
	SummaryFunc func() models.DatasetSummary
	PreviewFunc func(limit int) models.DatasetPreview
}

func (m *MockDatasetService) Summary() models.DatasetSummary {
	if m.SummaryFunc != nil {
		return m.SummaryFunc()
	}
	return models.DatasetSummary{Rows: 2, Features: 3, MissingValues: 1}
}

func (m *MockDatasetService) Preview(limit int) models.DatasetPreview {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(limit)
	}
	return models.DatasetPreview{
		Columns: []string{"venue", "team1_recent_wins", "team1_win"},
		Rows:    [][]string{{"Mumbai", "3", "1"}, {"Chennai", "", "0"}},
	}
}

func (m *MockDatasetService) Fields() []form.Field {
	return []form.Field{
		{Column: "venue", Label: "venue", Kind: form.KindSelect, Options: []form.Option{
			{Label: "Chennai", Value: preprocess.Str("Chennai")},
			{Label: "Mumbai", Value: preprocess.Str("Mumbai")},
		}},
		{Column: "team1_recent_wins", Label: "team1_recent_wins", Kind: form.KindNumber, Default: 3},
		{Column: "net_run_rate", Label: "net_run_rate", Kind: form.KindNumber, Default: 0},
	}
}

func (m *MockDatasetService) Defaults() map[string]string {
	return map[string]string{"venue": "Chennai", "team1_recent_wins": "3", "net_run_rate": "0"}
}

// MockLimiter
type MockLimiter struct {
	AllowFunc func(ctx context.Context, client string) bool
	PingErr   error
}

func (m *MockLimiter) Allow(ctx context.Context, client string) bool {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, client)
	}
	return true
}

func (m *MockLimiter) Ping(ctx context.Context) error { return m.PingErr }
