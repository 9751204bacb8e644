package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestMetricsRegistered(t *testing.T) {
	InvocationsTotal.WithLabelValues("launch", "ok").Inc()
	UpstreamCallsTotal.WithLabelValues("current", "ok").Inc()
	UpstreamLatency.WithLabelValues("current").Observe(0.2)
	TokenMintsTotal.WithLabelValues("ok").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	expected := map[string]bool{
		"solar_skill_invocations_total":        false,
		"solar_skill_upstream_calls_total":     false,
		"solar_skill_upstream_latency_seconds": false,
		"solar_skill_token_mints_total":        false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}

	for name, found := range expected {
		assert.True(t, found, "metric %s not registered", name)
	}
}

func TestInvocationsCounter(t *testing.T) {
	before := testutil.ToFloat64(InvocationsTotal.WithLabelValues("help", "ok"))
	InvocationsTotal.WithLabelValues("help", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(InvocationsTotal.WithLabelValues("help", "ok")))
}
