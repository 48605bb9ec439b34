package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	AnalyticsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradedash",
			Name:      "analytics_requests_total",
			Help:      "Analytics requests by outcome.",
		},
		[]string{"outcome"}, // ok, read_error, parse_error, too_large, unknown_format
	)

	ComputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tradedash",
			Name:      "analytics_compute_seconds",
			Help:      "Time spent computing one analytics snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	TradesIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradedash",
			Name:      "trades_ingested_total",
			Help:      "Normalized trade records handed to the engine, by export format.",
		},
		[]string{"format"},
	)

	IngestWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tradedash",
			Name:      "ingest_warnings_total",
			Help:      "Fields coerced to a default while normalizing trade rows.",
		},
	)
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(AnalyticsRequests, ComputeDuration, TradesIngested, IngestWarnings)
}
