package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Definition
var (
	messagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "txlens_messages_consumed_total",
			Help: "Total number of raw messages fetched from Kafka.",
		},
	)
	messagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txlens_messages_rejected_total",
			Help: "Total number of messages that could not be turned into a data point.",
		},
		[]string{"reason"}, // decode, invalid
	)
	recordResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txlens_record_results_total",
			Help: "Total number of data points handed to the window store, by outcome.",
		},
		[]string{"result"},
	)
	windowCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txlens_window_count",
			Help: "Number of transactions recorded in the trailing window.",
		},
	)
	windowSum = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txlens_window_sum",
			Help: "Sum of transaction amounts in the trailing window.",
		},
	)
	windowAvg = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txlens_window_avg",
			Help: "Average transaction amount in the trailing window (0 when empty).",
		},
	)
	windowMax = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txlens_window_max",
			Help: "Largest transaction amount in the trailing window (NaN when empty).",
		},
	)
	windowMin = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txlens_window_min",
			Help: "Smallest transaction amount in the trailing window (NaN when empty).",
		},
	)
	windowLiveBuckets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "txlens_window_live_buckets",
			Help: "Number of occupied per-second buckets in the window ring.",
		},
	)
	alertViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txlens_alert_violations_total",
			Help: "Total number of threshold violations detected on window statistics.",
		},
		[]string{"check", "comparison"}, // check: avg, count, max_amount
	)
)
