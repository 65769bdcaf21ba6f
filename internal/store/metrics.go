package store

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyrodovalexey/items-api/internal/model"
)

// Prometheus metrics.
var (
	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_store_operations_total",
			Help: "Total number of item store operations",
		},
		[]string{"operation", "result"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "item_store_operation_duration_seconds",
			Help:    "Item store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	storedItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "item_store_items",
			Help: "Number of items in the collection as of the last load or save",
		},
	)
)

// InstrumentedStore decorates a Store with Prometheus metrics.
type InstrumentedStore struct {
	next Store
}

// Instrumented wraps s so that every Load and Save is counted and timed.
func Instrumented(s Store) *InstrumentedStore {
	return &InstrumentedStore{next: s}
}

// Load delegates to the wrapped store and records the outcome.
func (s *InstrumentedStore) Load(ctx context.Context) ([]model.Item, error) {
	start := time.Now()
	items, err := s.next.Load(ctx)
	observe("load", start, err)

	if err == nil {
		storedItems.Set(float64(len(items)))
	}

	return items, err
}

// Save delegates to the wrapped store and records the outcome.
func (s *InstrumentedStore) Save(ctx context.Context, items []model.Item) error {
	start := time.Now()
	err := s.next.Save(ctx, items)
	observe("save", start, err)

	if err == nil {
		storedItems.Set(float64(len(items)))
	}

	return err
}

// NextID delegates to the wrapped store.
func (s *InstrumentedStore) NextID(items []model.Item) int {
	return s.next.NextID(items)
}

func observe(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}

	storeOperationsTotal.WithLabelValues(operation, result).Inc()
	storeOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
