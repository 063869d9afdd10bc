// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus metrics for crawling, expansion and
// recommendation. Fetch failures never reach callers; these counters are
// where skipped pages become visible.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeOK = "ok"
)

var (
	// FetchesTotal counts page fetch attempts by outcome (ok, transport, status, malformed).
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_fetches_total",
			Help: "Total number of page fetch attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ArticlesMergedTotal counts articles added to a corpus snapshot by expansion.
	ArticlesMergedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_articles_merged_total",
			Help: "Total number of articles merged into corpus snapshots",
		},
	)

	// RecommendationsTotal counts recommend requests by outcome.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendDuration tracks end-to-end recommendation latency.
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_request_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)
)

// RecordFetch records one fetch attempt.
func RecordFetch(outcome string) {
	FetchesTotal.WithLabelValues(outcome).Inc()
}

// RecordMerged records articles added by a merge.
func RecordMerged(n int) {
	ArticlesMergedTotal.Add(float64(n))
}

// RecordRecommendation records the outcome and latency of one request.
func RecordRecommendation(outcome string, elapsed time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(elapsed.Seconds())
}
