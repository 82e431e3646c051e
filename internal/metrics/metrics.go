package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveConnections tracks currently registered WebSocket clients.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_active_connections",
		Help: "Number of connected WebSocket clients.",
	})

	// OpenRooms tracks rooms currently present in the store.
	OpenRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_open_rooms",
		Help: "Number of open rooms.",
	})

	// RelayedStates counts player:state snapshots accepted for fan-out.
	RelayedStates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_player_states_total",
		Help: "Total player state snapshots relayed.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
