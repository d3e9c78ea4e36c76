// Package metrics exposes refresh-cycle instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tariffwatch/internal/logger"
)

var (
	cyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tariffwatch_refresh_cycles_total",
			Help: "Refresh cycles by outcome",
		},
		[]string{"result"},
	)

	skippedEntriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tariffwatch_skipped_entries_total",
			Help: "Source elements dropped due to missing or unconvertible fields",
		},
	)

	cycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tariffwatch_cycle_duration_seconds",
			Help:    "End-to-end refresh cycle duration",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(cyclesTotal, skippedEntriesTotal, cycleDuration)
}

// Cycle outcome labels.
const (
	ResultOK                = "ok"
	ResultSourceUnavailable = "source_unavailable"
	ResultUnknownShape      = "unknown_shape"
	ResultNoTodayPrices     = "no_today_prices"
	ResultPublishError      = "publish_error"
	ResultSkippedInFlight   = "skipped_in_flight"
)

// ObserveCycle records one finished (or skipped) cycle.
func ObserveCycle(result string, elapsed time.Duration) {
	cyclesTotal.WithLabelValues(result).Inc()
	if result != ResultSkippedInFlight {
		cycleDuration.Observe(elapsed.Seconds())
	}
}

// AddSkippedEntries records per-element parse failures.
func AddSkippedEntries(n int) {
	if n > 0 {
		skippedEntriesTotal.Add(float64(n))
	}
}

// Serve exposes /metrics on addr in a background goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.WithComponent("metrics").WithError(err).Error("metrics listener stopped")
		}
	}()
	logger.WithComponent("metrics").Infof("metrics listening on %s", addr)
}
