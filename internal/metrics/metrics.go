// Package metrics exposes Prometheus collectors tracking a Server's
// runtime behavior: connected clients, patches emitted, batches flushed,
// authentication rejections, and client reconnect attempts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector registered for one Server instance.
// Constructing a Metrics with its own prometheus.Registerer lets more than
// one Server share a process without colliding on metric names.
type Metrics struct {
	ConnectedClients  prometheus.Gauge
	PatchesEmitted    prometheus.Counter
	BatchesFlushed    prometheus.Counter
	AuthRejections    prometheus.Counter
	ReconnectAttempts prometheus.Counter
}

// New registers and returns a fresh set of collectors against reg. Pass
// prometheus.DefaultRegisterer to use the global registry, or a
// prometheus.NewRegistry() for isolation in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "yuzu",
			Name:      "connected_clients",
			Help:      "Number of currently connected clients.",
		}),
		PatchesEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "yuzu",
			Name:      "patches_emitted_total",
			Help:      "Total number of patches emitted to clients.",
		}),
		BatchesFlushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "yuzu",
			Name:      "batches_flushed_total",
			Help:      "Total number of patch-batch messages flushed.",
		}),
		AuthRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "yuzu",
			Name:      "auth_rejections_total",
			Help:      "Total number of connection attempts rejected by the Authenticate hook.",
		}),
		ReconnectAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "yuzu",
			Name:      "client_reconnect_attempts_total",
			Help:      "Total number of client reconnect attempts.",
		}),
	}
}
