package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks served requests per route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predict_gateway_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency per route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predict_gateway_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// EndpointInvocationsTotal tracks endpoint calls by attempt outcome
	EndpointInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predict_gateway_endpoint_invocations_total",
			Help: "Total number of inference endpoint invocations",
		},
		[]string{"endpoint", "outcome"},
	)

	// EndpointLatency tracks the wall-clock time of each endpoint call
	EndpointLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predict_gateway_endpoint_latency_seconds",
			Help:    "Inference endpoint call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	// AttemptsPerPrediction tracks how many calls each prediction needed
	AttemptsPerPrediction = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predict_gateway_attempts_per_prediction",
			Help:    "Number of endpoint attempts per prediction request",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	// PredictionsTotal tracks successful predictions per confidence bucket
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predict_gateway_predictions_total",
			Help: "Total number of successful predictions",
		},
		[]string{"confidence"},
	)
)
