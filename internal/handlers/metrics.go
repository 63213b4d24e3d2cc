package handlers

import "github.com/prometheus/client_golang/prometheus"

var (
	tasksCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cmt_tasks_created_total",
		Help: "Tasks created through the API.",
	})
	taskUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cmt_tasks_updates_total",
		Help: "Successful task updates.",
	})
	notificationsFannedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cmt_tasks_notifications_fanned_total",
		Help: "Notification rows written by fan-out.",
	})
)

func init() {
	prometheus.MustRegister(tasksCreatedTotal, taskUpdatesTotal, notificationsFannedTotal)
}
