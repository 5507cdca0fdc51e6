// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route"},
	)

	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_answers_total",
			Help: "Answers produced, by branch and the source of the final text",
		},
		[]string{"branch", "final_src"},
	)

	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_provider_calls_total",
			Help: "External data-source calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	GenerationCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_generation_calls_total",
			Help: "LLM calls by pipeline stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	InteractionWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_interaction_writes_total",
			Help: "Interaction record writes by sink and outcome",
		},
		[]string{"sink", "outcome"},
	)

	InteractionQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_interaction_queue_depth",
			Help: "Interaction records waiting to be written",
		},
	)
)

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
	OutcomeDropped = "dropped"
)
