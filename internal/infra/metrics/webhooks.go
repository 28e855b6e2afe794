package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		webhookUnknownTotal,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Gateway webhook deliveries by reconciliation outcome.",
		},
		[]string{"outcome"},
	)

	webhookUnknownTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_unknown_transactions_total",
			Help: "Webhook deliveries referencing a transaction id with no matching payment. Non-zero values indicate gateway/store desync.",
		},
	)
)

func IncWebhookEvent(outcome string) {
	webhookEventsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncUnknownTransaction() {
	webhookUnknownTotal.Inc()
}
