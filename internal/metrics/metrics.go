// Package metrics exposes Prometheus collectors for the pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal         *prometheus.CounterVec
	pagesSavedTotal           prometheus.Counter
	extractionsTotal          *prometheus.CounterVec
	imageQueriesTotal         *prometheus.CounterVec
	restaurantsPersistedTotal prometheus.Counter

	once sync.Once
)

// Init registers the Prometheus collectors. It is safe to call multiple
// times; collectors stay unregistered (and recording is a no-op) until
// the first call.
func Init() {
	once.Do(func() {
		pagesFetchedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menupipe_pages_fetched_total",
				Help: "Total pages fetched, labeled by outcome.",
			},
			[]string{"outcome"},
		)
		pagesSavedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "menupipe_pages_saved_total",
				Help: "Total leaf pages persisted to blob storage.",
			},
		)
		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menupipe_extractions_total",
				Help: "Total structured extraction attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)
		imageQueriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menupipe_image_queries_total",
				Help: "Total image search queries, labeled by outcome.",
			},
			[]string{"outcome"},
		)
		restaurantsPersistedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "menupipe_restaurants_persisted_total",
				Help: "Total restaurants written to the catalog.",
			},
		)
	})
}

// PageFetched records one fetch attempt with outcome "ok" or "failed".
func PageFetched(outcome string) {
	if pagesFetchedTotal != nil {
		pagesFetchedTotal.WithLabelValues(outcome).Inc()
	}
}

// PageSaved records one persisted leaf page.
func PageSaved() {
	if pagesSavedTotal != nil {
		pagesSavedTotal.Inc()
	}
}

// Extraction records one extraction attempt with outcome "parsed",
// "parse_failed" or "failed".
func Extraction(outcome string) {
	if extractionsTotal != nil {
		extractionsTotal.WithLabelValues(outcome).Inc()
	}
}

// ImageQuery records one image search with outcome "ok" or "failed".
func ImageQuery(outcome string) {
	if imageQueriesTotal != nil {
		imageQueriesTotal.WithLabelValues(outcome).Inc()
	}
}

// RestaurantPersisted records one catalog write.
func RestaurantPersisted() {
	if restaurantsPersistedTotal != nil {
		restaurantsPersistedTotal.Inc()
	}
}
