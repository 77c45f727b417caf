package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/registry/pkg/registry"
)

// metrics holds the Prometheus collectors for the registry server.
type metrics struct {
	commandsTotal    *prometheus.CounterVec
	commandDuration  *prometheus.HistogramVec
	navigationsTotal *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	entries          *prometheus.GaugeVec
	wsErrors         *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		commandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of registry commands processed",
		}, []string{"op", "status"}),

		commandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Registry command processing duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),

		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Total number of URL updates sent to clients",
		}, []string{"mode"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active WebSocket sessions",
		}),

		entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Number of registered entries across live sessions",
		}, []string{"registry"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "Total WebSocket errors by type",
		}, []string{"type"}),
	}
}

// trackEntries returns a listener that keeps the entries gauge of name in
// step with a registry.
func trackEntries[E any](m *metrics, name string) registry.Listener[E] {
	g := m.entries.WithLabelValues(name)
	return func(c registry.Change[E]) {
		g.Add(float64(len(c.Current) - len(c.Previous)))
	}
}
