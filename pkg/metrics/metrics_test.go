package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMetric(t *testing.T, m prometheus.Metric) *dto.Metric {
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return &out
}

func TestCounters(t *testing.T) {
	CycleTotalMetrics.WithLabelValues("TESTUSDT", "1h").Inc()
	CycleTotalMetrics.WithLabelValues("TESTUSDT", "1h").Inc()
	UpsertedRowsMetrics.WithLabelValues("TESTUSDT", "1h", "EMA").Add(3)

	assert.Equal(t, 2.0, writeMetric(t, CycleTotalMetrics.WithLabelValues("TESTUSDT", "1h")).GetCounter().GetValue())
	assert.Equal(t, 3.0, writeMetric(t, UpsertedRowsMetrics.WithLabelValues("TESTUSDT", "1h", "EMA")).GetCounter().GetValue())
}

func TestWindowSizeGauge(t *testing.T) {
	WindowSizeMetrics.WithLabelValues("TESTUSDT", "4h").Set(1000)
	WindowSizeMetrics.WithLabelValues("TESTUSDT", "4h").Set(750)

	assert.Equal(t, 750.0, writeMetric(t, WindowSizeMetrics.WithLabelValues("TESTUSDT", "4h")).GetGauge().GetValue())
}

func TestRegistered(t *testing.T) {
	ComputeDurationMetrics.WithLabelValues("1d").Observe(0.01)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}

	assert.True(t, names["indicalc_compute_duration_seconds"])
	assert.True(t, names["indicalc_worker_cycles_total"])
}
