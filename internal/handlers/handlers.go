package handlers

import (
	"context"
	"html/template"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cricketml/prematch/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// MaxPreviewRows caps the preview limit accepted by the API
const MaxPreviewRows = 100

// Limiter admits or rejects requests per client
type Limiter interface {
	Allow(ctx context.Context, client string) bool
	Ping(ctx context.Context) error
}

type Config struct {
	Logger *zap.Logger
	// Services
	Prediction logic.PredictionService
	Dataset    logic.DatasetService
	// Limiter is optional; nil disables rate limiting
	Limiter Limiter
}

type Handler struct {
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	prediction logic.PredictionService
	dataset    logic.DatasetService
	limiter    Limiter
	pages      map[string]*template.Template
}

func New(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger.Sugar(),
		validator:  validator.New(),
		prediction: cfg.Prediction,
		dataset:    cfg.Dataset,
		limiter:    cfg.Limiter,
		pages:      mustParsePages(),
	}
}
