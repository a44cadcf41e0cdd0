package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cycle metrics
	CycleRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsgrabber_cycle_runs_total",
			Help: "Total number of grab cycles by outcome",
		},
		[]string{"status"},
	)

	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventsgrabber_cycle_duration_seconds",
			Help:    "Duration of grab cycles",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsgrabber_events_collected_total",
			Help: "Total number of events collected per contract",
		},
		[]string{"contract"},
	)

	EventsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsgrabber_events_applied_total",
			Help: "Total number of events applied per contract",
		},
		[]string{"contract"},
	)

	LastProcessedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventsgrabber_last_processed_block",
			Help: "Last fully processed block number",
		},
	)

	// Metadata metrics
	MetadataFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventsgrabber_metadata_fetches_total",
			Help: "Total number of token metadata fetch attempts",
		},
	)

	MetadataFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventsgrabber_metadata_fetch_failures_total",
			Help: "Total number of degraded token metadata fetches by reason",
		},
		[]string{"reason"},
	)
)
