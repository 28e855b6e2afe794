package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		propagationQueueDepth,
		propagationParkedDepth,
		propagationRetriesTotal,
		propagationParkedTotal,
	)
}

var (
	propagationQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_propagation_queue_depth",
			Help: "Order updates waiting to be retried after a completed payment.",
		},
	)

	propagationParkedDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_propagation_parked_depth",
			Help: "Order updates that exhausted retries and need operator attention.",
		},
	)

	propagationRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_propagation_retries_total",
			Help: "Retry attempts made by the propagation worker.",
		},
	)

	propagationParkedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_propagation_parked_total",
			Help: "Tasks parked after exhausting retry attempts.",
		},
	)
)

func SetPropagationQueueDepth(n float64)  { propagationQueueDepth.Set(n) }
func SetPropagationParkedDepth(n float64) { propagationParkedDepth.Set(n) }
func IncPropagationRetry()                { propagationRetriesTotal.Inc() }
func IncPropagationParked()               { propagationParkedTotal.Inc() }
