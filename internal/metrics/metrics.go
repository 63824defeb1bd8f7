package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquasafe_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aquasafe_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ScoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquasafe_scores_total",
			Help: "Total risk scores computed by applied strategy",
		},
		[]string{"strategy"},
	)

	ScoreValue = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aquasafe_score_value",
			Help:    "Distribution of computed risk scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"strategy"},
	)

	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquasafe_upstream_calls_total",
			Help: "Total calls to external data sources",
		},
		[]string{"source", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aquasafe_upstream_latency_seconds",
			Help:    "External data source latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquasafe_cache_lookups_total",
			Help: "Water quality cache lookups by result (hit, miss, expired)",
		},
		[]string{"result"},
	)

	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquasafe_training_runs_total",
			Help: "Model training runs by outcome",
		},
		[]string{"result"},
	)

	TrainingSamples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aquasafe_training_samples",
			Help: "Training samples available at the last training run",
		},
	)

	DisastersIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquasafe_disasters_ingested_total",
			Help: "Total disaster records stored, by feed",
		},
		[]string{"source"},
	)
)
