// Package metrics holds the Prometheus collectors for quotation lifecycle events.
// Collectors are exposed through the /-/metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "brccsis"

// Recorder counts transitions and notification failures.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	transitions      *prometheus.CounterVec
	transitionTime   *prometheus.HistogramVec
	notifyFailures   *prometheus.CounterVec
	notificationsOut *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotation_transitions_total",
			Help:      "Quotation lifecycle actions by action and outcome.",
		}, []string{"action", "outcome"}),
		transitionTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quotation_transition_duration_seconds",
			Help:      "Time spent inside the unit of work of a lifecycle action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		notifyFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_dispatch_failures_total",
			Help:      "Notification dispatches that failed after the transition committed.",
		}, []string{"category"}),
		notificationsOut: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "Notifications handed to the dispatcher, per category.",
		}, []string{"category"}),
	}
}

// ObserveTransition records the outcome and duration of one action.
func (r *Recorder) ObserveTransition(action, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(action, outcome).Inc()
	r.transitionTime.WithLabelValues(action).Observe(d.Seconds())
}

// NotificationsSent adds n dispatched notifications of a category.
func (r *Recorder) NotificationsSent(category string, n int) {
	if r == nil {
		return
	}
	r.notificationsOut.WithLabelValues(category).Add(float64(n))
}

// NotificationFailed counts one failed dispatch.
func (r *Recorder) NotificationFailed(category string) {
	if r == nil {
		return
	}
	r.notifyFailures.WithLabelValues(category).Inc()
}
