package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Trigger handler metrics
	HandlerOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dutynotify_handler_outcomes_total",
			Help: "Trigger handler invocations by handler and outcome",
		},
		[]string{"handler", "outcome"},
	)

	NotificationRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dutynotify_notification_records_total",
			Help: "Notification records persisted",
		},
	)

	// Push metrics
	PushSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dutynotify_push_sends_total",
			Help: "Push sends by result",
		},
		[]string{"result"},
	)

	// Teardown metrics
	TeardownStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dutynotify_teardown_steps_total",
			Help: "Account teardown steps by step and result",
		},
		[]string{"step", "result"},
	)

	// Queue metrics
	TriggerTasksEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dutynotify_trigger_tasks_enqueued_total",
			Help: "Trigger tasks enqueued by task type and source",
		},
		[]string{"type", "source"},
	)
)

func init() {
	prometheus.MustRegister(HandlerOutcomesTotal)
	prometheus.MustRegister(NotificationRecordsTotal)
	prometheus.MustRegister(PushSendsTotal)
	prometheus.MustRegister(TeardownStepsTotal)
	prometheus.MustRegister(TriggerTasksEnqueuedTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
