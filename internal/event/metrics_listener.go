package event

import (
	"context"

	"beauty-center-backend/internal/infrastructure/metrics"
)

// MetricsListener counts appointment activity.
type MetricsListener struct {
	metrics *metrics.Metrics
}

func NewMetricsListener(m *metrics.Metrics) *MetricsListener {
	return &MetricsListener{metrics: m}
}

func (l *MetricsListener) Name() string { return "metrics" }

func (l *MetricsListener) OnAppointmentCreated(_ context.Context, e AppointmentCreated) error {
	l.metrics.AppointmentsCreated.WithLabelValues(e.Appointment.CompanyID.String()).Inc()
	return nil
}

func (l *MetricsListener) OnAppointmentStatusChanged(_ context.Context, e AppointmentStatusChanged) error {
	l.metrics.StatusTransitions.WithLabelValues(string(e.OldStatus), string(e.NewStatus)).Inc()
	return nil
}

func (l *MetricsListener) OnAppointmentDeleted(context.Context, AppointmentDeleted) error {
	return nil
}
