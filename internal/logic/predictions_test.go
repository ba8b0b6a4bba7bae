package logic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/cricketml/prematch/internal/artifact/artifacttest"
	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/models"
	"github.com/cricketml/prematch/internal/preprocess"
)

func newTestPredictionService(t *testing.T) PredictionService {
	t.Helper()
	return NewPredictionService(artifacttest.Bundle(t), 3, zap.NewNop())
}

func TestPredict(t *testing.T) {
	svc := newTestPredictionService(t)

	tests := []struct {
		name           string
		values         map[string]string
		wantLabel      int
		wantWinner     string
		wantConfidence int
		wantStrength   string
	}{
		{
			name:           "First team favored",
			values:         artifacttest.StrongTeam1(),
			wantLabel:      1,
			wantWinner:     "Team 1",
			wantConfidence: 83,
			wantStrength:   models.StrengthHigh,
		},
		{
			name:           "Second team narrowly favored",
			values:         artifacttest.NarrowTeam2(),
			wantLabel:      0,
			wantWinner:     "Team 2",
			wantConfidence: 56,
			wantStrength:   models.StrengthModerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := svc.Predict(context.Background(), tt.values)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLabel, pred.Label)
			assert.Equal(t, tt.wantLabel == 1, pred.FirstTeamWins())
			assert.Equal(t, tt.wantWinner, pred.Winner)
			assert.Equal(t, tt.wantConfidence, pred.Confidence)
			assert.Equal(t, tt.wantStrength, pred.Strength)
			assert.Equal(t, 13, pred.FeatureCount)
			assert.Len(t, pred.Probabilities, 2)
			assert.NotEmpty(t, pred.ID)
		})
	}
}

func TestPredictDeterministic(t *testing.T) {
	svc := newTestPredictionService(t)

	first, err := svc.Predict(context.Background(), artifacttest.NarrowTeam2())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		pred, err := svc.Predict(context.Background(), artifacttest.NarrowTeam2())
		require.NoError(t, err)
		require.Equal(t, first.Label, pred.Label, "run %d", i)
		require.Equal(t, first.Confidence, pred.Confidence, "run %d", i)
	}
}

func TestPredictEveryChoiceStaysInRange(t *testing.T) {
	b := artifacttest.Bundle(t)
	svc := NewPredictionService(b, 1, zap.NewNop())

	for _, field := range b.Schema.Fields {
		if field.Kind != form.KindSelect {
			continue
		}
		for _, opt := range field.Options {
			values := artifacttest.StrongTeam1()
			values[field.Column] = opt.Label

			pred, err := svc.Predict(context.Background(), values)
			require.NoError(t, err, "%s=%s", field.Column, opt.Label)
			assert.GreaterOrEqual(t, pred.Confidence, 0)
			assert.LessOrEqual(t, pred.Confidence, 100)
			assert.Equal(t, pred.Label == 1, pred.Winner == "Team 1", "%s=%s", field.Column, opt.Label)
		}
	}
}

func TestPredictInputErrors(t *testing.T) {
	svc := newTestPredictionService(t)

	tests := []struct {
		name   string
		mutate func(map[string]string)
		want   error
	}{
		{
			name:   "Unknown venue",
			mutate: func(v map[string]string) { v["venue"] = "Lord's" },
			want:   form.ErrInvalidChoice,
		},
		{
			name:   "Non-numeric wins",
			mutate: func(v map[string]string) { v["team1_recent_wins"] = "many" },
			want:   form.ErrNotNumeric,
		},
		{
			name:   "NaN wins",
			mutate: func(v map[string]string) { v["team1_recent_wins"] = "NaN" },
			want:   form.ErrNotNumeric,
		},
		{
			name:   "Infinite wins",
			mutate: func(v map[string]string) { v["team1_recent_wins"] = "Inf" },
			want:   form.ErrNotNumeric,
		},
		{
			name:   "Negative infinite wins",
			mutate: func(v map[string]string) { v["team2_recent_wins"] = "-Inf" },
			want:   form.ErrNotNumeric,
		},
		{
			name:   "Missing select",
			mutate: func(v map[string]string) { delete(v, "toss_winner") },
			want:   form.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := artifacttest.StrongTeam1()
			tt.mutate(values)

			pred, err := svc.Predict(context.Background(), values)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, pred)
			assert.True(t, IsInputError(err), "IsInputError(%v)", err)
		})
	}
}

func TestPredictCanceledContext(t *testing.T) {
	svc := newTestPredictionService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Predict(ctx, artifacttest.StrongTeam1())
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsInputError(err), "cancellation must not be reported as an input error")
}

func TestPredictBatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	svc := newTestPredictionService(t)

	var rows []map[string]string
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			rows = append(rows, artifacttest.StrongTeam1())
		} else {
			rows = append(rows, artifacttest.NarrowTeam2())
		}
	}

	preds, err := svc.PredictBatch(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, preds, len(rows))
	for i, p := range preds {
		want := 1
		if i%2 == 1 {
			want = 0
		}
		assert.Equal(t, want, p.Label, "row %d", i)
	}

	bad := artifacttest.StrongTeam1()
	bad["venue"] = "Lord's"
	rows[7] = bad
	_, err = svc.PredictBatch(context.Background(), rows)
	assert.True(t, IsInputError(err), "PredictBatch() error = %v, want input error", err)
}

func TestConfidenceAndStrength(t *testing.T) {
	tests := []struct {
		p            float64
		wantPct      int
		wantStrength string
	}{
		{0.5, 50, models.StrengthModerate},
		{0.65, 65, models.StrengthModerate},
		{0.659999, 65, models.StrengthModerate},
		{0.66, 66, models.StrengthHigh},
		{0.999, 99, models.StrengthHigh},
		{1.0, 100, models.StrengthHigh},
		{1.2, 100, models.StrengthHigh},
		{-0.1, 0, models.StrengthModerate},
	}
	for _, tt := range tests {
		got := Confidence(tt.p)
		assert.Equal(t, tt.wantPct, got, "Confidence(%v)", tt.p)
		assert.Equal(t, tt.wantStrength, Strength(got), "Strength(%d)", got)
	}
}

func TestClassifyLeavesInternalErrors(t *testing.T) {
	assert.False(t, IsInputError(classify(errors.New("disk on fire"))))
	assert.True(t, IsInputError(classify(preprocess.ErrUnknownCategory)))
}
