package webhook

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskmill",
		Subsystem: "webhook",
		Name:      "deliveries_total",
		Help:      "The total number of webhook deliveries by action and status code",
	}, []string{"action", "status"})

	deliveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taskmill",
		Subsystem: "webhook",
		Name:      "delivery_duration_seconds",
		Help:      "Time taken by webhook deliveries",
		Buckets:   prometheus.DefBuckets,
	}, []string{"action"})

	eventsDroppedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskmill",
		Subsystem: "webhook",
		Name:      "events_dropped_total",
		Help:      "The total number of events that never reached the dispatcher",
	}, []string{"action", "reason"})

	logFailuresCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "taskmill",
		Subsystem: "webhook",
		Name:      "log_append_failures_total",
		Help:      "The total number of delivery log entries that could not be written",
	})

	queueDepthGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "taskmill",
		Subsystem: "webhook",
		Name:      "queue_depth",
		Help:      "Current number of events waiting in the webhook queue",
	})
)

// statusLabel is the status label of a delivery; "error" when no response
// arrived.
func statusLabel(code int, err error) string {
	if err != nil || code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}

// CountDropped records an event that was not dispatched.
func CountDropped(action Action, reason string) {
	eventsDroppedCounter.WithLabelValues(action.String(), reason).Inc()
}
