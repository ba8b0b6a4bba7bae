package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the transport settings for Routes
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For / X-Real-IP.
	// Without it the rate limiter keys on the connection address.
	TrustProxyHeaders bool
}

// Routes mounts the HTML pages, the JSON API and the operational endpoints
func (h *Handler) Routes(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Pages
	r.Get("/", h.Overview)
	r.Get("/dataset", h.DatasetPage)
	r.Get("/predict", h.PredictForm)
	r.With(h.RateLimitMiddleware).Post("/predict", h.PredictSubmit)

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))

		r.Get("/schema", h.GetSchema)
		r.Get("/dataset/summary", h.GetDatasetSummary)
		r.Get("/dataset/preview", h.GetDatasetPreview)

		r.Group(func(r chi.Router) {
			r.Use(h.RateLimitMiddleware)
			r.Post("/predict", h.PostPredict)
			r.Post("/predict/batch", h.PostPredictBatch)
		})
	})

	return r
}

// requestLogger logs one line per request through zap
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Infow("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}
