package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and backfill Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodsearch",
			Name:      "search_requests_total",
			Help:      "Total number of hybrid search requests",
		},
		[]string{"outcome"}, // "ok" / "invalid" / "upstream_error"
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "prodsearch",
			Name:      "search_results_returned",
			Help:      "Number of merged identifiers returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)

	BackfillRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodsearch",
			Name:      "backfill_runs_total",
			Help:      "Total backfill runs by terminal state",
		},
		[]string{"state"}, // "completed" / "aborted"
	)

	BackfillRowsUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prodsearch",
			Name:      "backfill_rows_updated_total",
			Help:      "Total product rows that received an embedding via backfill",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and backfill metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(BackfillRunsTotal)
	prometheus.MustRegister(BackfillRowsUpdatedTotal)
	searchMetricsRegistered = true
}
