package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CycleTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicalc_worker_cycles_total",
			Help: "Total number of completed fetch-compute-upsert cycles",
		}, []string{"asset", "interval"},
	)

	FetchedCandlesMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicalc_fetched_candles_total",
			Help: "Total number of candles accepted after the continuity check",
		}, []string{"asset", "interval"},
	)

	UpsertedRowsMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicalc_upserted_rows_total",
			Help: "Total number of indicator rows written",
		}, []string{"asset", "interval", "indicator"},
	)

	RetryTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicalc_retries_total",
			Help: "Total number of retried store operations",
		}, []string{"asset", "interval", "operation"},
	)

	WorkerRestartMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indicalc_worker_restarts_total",
			Help: "Total number of workers replaced by the supervisor",
		}, []string{"asset", "interval", "reason"},
	)

	WindowSizeMetrics = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "indicalc_window_size",
			Help: "Number of candles held in the window of a pair",
		}, []string{"asset", "interval"},
	)

	ComputeDurationMetrics = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indicalc_compute_duration_seconds",
			Help:    "Time spent computing the indicators over the window",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"interval"},
	)
)

func init() {
	prometheus.MustRegister(
		CycleTotalMetrics,
		FetchedCandlesMetrics,
		UpsertedRowsMetrics,
		RetryTotalMetrics,
		WorkerRestartMetrics,
		WindowSizeMetrics,
		ComputeDurationMetrics,
	)
}
