package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prematch_predictions_total",
		Help: "Total number of predictions served, by predicted winner",
	}, []string{"winner"})

	predictionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prematch_prediction_errors_total",
		Help: "Total number of failed predictions, by kind",
	}, []string{"kind"})

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prematch_prediction_duration_seconds",
		Help:    "Time spent parsing, encoding and scoring one input",
		Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
	})

	predictionConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prematch_prediction_confidence_percent",
		Help:    "Reported confidence of served predictions",
		Buckets: prometheus.LinearBuckets(50, 5, 11),
	})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prematch_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
)
