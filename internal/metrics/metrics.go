package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socially_chat_messages_sent_total",
		Help: "Messages successfully persisted and returned to the sender.",
	})

	EventsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socially_chat_events_delivered_total",
		Help: "Events written to a connected WebSocket client.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socially_chat_events_dropped_total",
		Help: "Events dropped because a client's send buffer was full.",
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "socially_chat_ws_connections",
		Help: "Currently registered WebSocket connections.",
	})

	PublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socially_chat_publish_errors_total",
		Help: "Failed Kafka publishes of newMessage events.",
	})
)

// Serve exposes the Prometheus endpoint on its own listener, apart from the
// public API.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
