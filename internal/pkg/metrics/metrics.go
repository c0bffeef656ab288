// Package metrics provides Prometheus instrumentation for the MapChat server.
// It exposes gauges for connection and registry size, counters for message and
// proximity-update throughput, and a histogram for event processing latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive tracks the current number of active WebSocket connections.
	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mapchat_connections_active",
		Help: "Current number of active WebSocket connections",
	})

	// RegistrySize tracks the current number of users in the presence registry.
	RegistrySize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mapchat_registry_size",
		Help: "Current number of users in the presence registry",
	})

	// MessagesTotal counts relayed and rejected messages, labeled by
	// type: "text", "voice", or "dropped".
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mapchat_messages_total",
		Help: "Total number of chat messages processed",
	}, []string{"type"}) // type = "text", "voice", "dropped"

	// ProximityUpdatesTotal counts proximity:update payloads pushed to clients.
	ProximityUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mapchat_proximity_updates_total",
		Help: "Total number of proximity update notifications pushed",
	})

	// EventLatency records hub event processing latency in seconds.
	EventLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mapchat_event_latency_seconds",
		Help:    "Hub event processing latency in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
	})
)

func init() {
	prometheus.MustRegister(
		ConnectionsActive,
		RegistrySize,
		MessagesTotal,
		ProximityUpdatesTotal,
		EventLatency,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
