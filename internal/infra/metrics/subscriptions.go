package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(subscriptionActivationsTotal)
}

var subscriptionActivationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "subscription_activations_total",
		Help: "Subscriptions created, labeled by billing interval.",
	},
	[]string{"interval"},
)

func IncSubscriptionActivation(interval string) {
	subscriptionActivationsTotal.WithLabelValues(norm(interval)).Inc()
}
