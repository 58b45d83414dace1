// Package metrics holds the Prometheus collectors for the dispatcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruha_dispatch_requests_total",
			Help: "Total number of dispatch requests answered, by action and HTTP status",
		},
		[]string{"action", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gruha_upstream_request_duration_seconds",
			Help:    "Duration of AI gateway calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"action", "upstream_status"},
	)

	NormalizeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruha_normalize_outcomes_total",
			Help: "Model outputs by normalization outcome (parsed or raw)",
		},
		[]string{"action", "outcome"},
	)

	SchemaMismatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruha_schema_mismatches_total",
			Help: "Parsed model outputs that did not match the requested response shape",
		},
		[]string{"action"},
	)

	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gruha_events_dropped_total",
			Help: "Design events dropped because the publish queue was full",
		},
	)

	ChatStreams = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruha_chat_streams_total",
			Help: "Assistant chat requests, by HTTP status",
		},
		[]string{"status"},
	)
)
