package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_created_total",
		Help: "Messages persisted",
	})

	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_notifications_total",
		Help: "Push notifications by result",
	}, []string{"result"})

	Connections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Active websocket connections",
	})
)

func Init() {
	prometheus.MustRegister(MessagesCreated, Notifications, Connections)
}
