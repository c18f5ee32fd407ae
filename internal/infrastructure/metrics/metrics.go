// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	AppointmentsCreated *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	SlotConflicts       prometheus.Counter
	ListenerFailures    *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beauty_center",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beauty_center",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		AppointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beauty_center",
			Name:      "appointments_created_total",
			Help:      "Appointments created, by company.",
		}, []string{"company_id"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beauty_center",
			Name:      "appointment_status_transitions_total",
			Help:      "Appointment status changes by source and target status.",
		}, []string{"from", "to"}),
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beauty_center",
			Name:      "appointment_slot_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken.",
		}),
		ListenerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beauty_center",
			Name:      "event_listener_failures_total",
			Help:      "Event listener errors and panics, by listener.",
		}, []string{"listener"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.AppointmentsCreated,
		m.StatusTransitions,
		m.SlotConflicts,
		m.ListenerFailures,
	)
	return m
}
