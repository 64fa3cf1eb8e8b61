package mediabox

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of an Adapter. A nil *Metrics
// records nothing.
type Metrics struct {
	operations     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	orphanedWrites prometheus.Counter
}

// NewMetrics creates the adapter collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediabox_operations_total",
				Help: "Total number of storage adapter operations",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mediabox_operation_duration_seconds",
				Help:    "Storage adapter operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediabox_cache_lookups_total",
				Help: "Identifier cache lookups by result",
			},
			[]string{"result"},
		),
		orphanedWrites: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mediabox_orphaned_objects_total",
				Help: "Objects created remotely whose public-read grant failed",
			},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.duration, m.cacheLookups, m.orphanedWrites} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// observe records one finished operation.
func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) orphaned() {
	if m == nil {
		return
	}
	m.orphanedWrites.Inc()
}

// Operations returns the per-operation counter, labelled by op and result.
func (m *Metrics) Operations() *prometheus.CounterVec { return m.operations }

// CacheLookups returns the identifier cache counter, labelled by result.
func (m *Metrics) CacheLookups() *prometheus.CounterVec { return m.cacheLookups }

// OrphanedObjects counts objects left private after a failed grant.
func (m *Metrics) OrphanedObjects() prometheus.Counter { return m.orphanedWrites }
