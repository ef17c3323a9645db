// Package metrics provides a Prometheus-based tracer for connection ID
// lifecycle events.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quicfoundry/connid/logging"
)

const metricNamespace = "connid"

var (
	connIDsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "issued_total",
			Help:      "connection IDs issued to peers",
		},
	)
	connIDsRetired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "retired_total",
			Help:      "connection IDs that entered retirement",
		},
	)
	connIDsRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "removed_total",
			Help:      "retired connection IDs whose state was discarded",
		},
	)
	connIDsTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "tracked",
			Help:      "connection IDs currently tracked (issued and not yet removed)",
		},
	)
)

// NewConnectionTracer creates a tracer using the default Prometheus
// registerer. The returned tracer can be set on a connid.Registry, possibly
// multiplexed with other tracers.
func NewConnectionTracer() *logging.ConnectionTracer {
	return NewConnectionTracerWithRegisterer(prometheus.DefaultRegisterer)
}

// NewConnectionTracerWithRegisterer creates a tracer using a given
// Prometheus registerer.
func NewConnectionTracerWithRegisterer(registerer prometheus.Registerer) *logging.ConnectionTracer {
	registerCollectors(registerer)
	return &logging.ConnectionTracer{
		IssuedConnectionID: func(uint64, logging.ConnectionID) {
			connIDsIssued.Inc()
			connIDsTracked.Inc()
		},
		RetiredConnectionID: func(uint64, logging.ConnectionID) {
			connIDsRetired.Inc()
		},
		RemovedConnectionID: func(uint64, logging.ConnectionID) {
			connIDsRemoved.Inc()
			connIDsTracked.Dec()
		},
		UpdatedTimer: func(time.Time) {},
	}
}

var registerOnce sync.Once

// The collectors are process-wide; they are registered with the registerer
// passed on the first call.
func registerCollectors(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		for _, c := range [...]prometheus.Collector{
			connIDsIssued,
			connIDsRetired,
			connIDsRemoved,
			connIDsTracked,
		} {
			registerer.MustRegister(c)
		}
	})
}
