// Package metrics holds the Prometheus collectors exported by the skill.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// UpstreamBuckets covers cloud function latencies from 50ms to 10s.
var UpstreamBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

var (
	// InvocationsTotal counts skill invocations by handler and outcome.
	InvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_skill_invocations_total",
			Help: "Skill invocations",
		},
		[]string{"handler", "outcome"},
	)

	// UpstreamCallsTotal counts remote function calls by result kind.
	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_skill_upstream_calls_total",
			Help: "Remote function calls",
		},
		[]string{"data_type", "result"},
	)

	// UpstreamLatency records remote function latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solar_skill_upstream_latency_seconds",
			Help:    "Remote function latency",
			Buckets: UpstreamBuckets,
		},
		[]string{"data_type"},
	)

	// TokenMintsTotal counts ID token exchanges by result.
	TokenMintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_skill_token_mints_total",
			Help: "ID token mint attempts",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		InvocationsTotal,
		UpstreamCallsTotal,
		UpstreamLatency,
		TokenMintsTotal,
	)
}
