package logic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/models"
)

// PredictionService turns submitted form values into match predictions
type PredictionService interface {
	Predict(ctx context.Context, values map[string]string) (*models.MatchPrediction, error)
	PredictBatch(ctx context.Context, rows []map[string]string) ([]*models.MatchPrediction, error)
}

// DatasetService exposes the reference dataset and the form derived from it
type DatasetService interface {
	Summary() models.DatasetSummary
	Preview(limit int) models.DatasetPreview
	Fields() []form.Field
	// Defaults are the values an untouched form submits.
	Defaults() map[string]string
}

// RedisClient defines the subset of the Redis client used for rate limiting
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Ping(ctx context.Context) *redis.StatusCmd
}
