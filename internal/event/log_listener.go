package event

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogListener writes every event to the application log.
type LogListener struct {
	log *logrus.Logger
}

func NewLogListener(log *logrus.Logger) *LogListener {
	return &LogListener{log: log}
}

func (l *LogListener) Name() string { return "log" }

func (l *LogListener) OnAppointmentCreated(_ context.Context, e AppointmentCreated) error {
	l.log.WithFields(logrus.Fields{
		"event":          NameAppointmentCreated,
		"appointment_id": e.Appointment.ID,
		"company_id":     e.Appointment.CompanyID,
		"employee_id":    e.Appointment.EmployeeID,
		"start_time":     e.Appointment.StartTime,
	}).Info("Appointment created")
	return nil
}

func (l *LogListener) OnAppointmentStatusChanged(_ context.Context, e AppointmentStatusChanged) error {
	l.log.WithFields(logrus.Fields{
		"event":          NameAppointmentStatusChanged,
		"appointment_id": e.Appointment.ID,
		"old_status":     e.OldStatus,
		"new_status":     e.NewStatus,
	}).Info("Appointment status changed")
	return nil
}

func (l *LogListener) OnAppointmentDeleted(_ context.Context, e AppointmentDeleted) error {
	l.log.WithFields(logrus.Fields{
		"event":          NameAppointmentDeleted,
		"appointment_id": e.AppointmentID,
	}).Info("Appointment deleted")
	return nil
}

func (l *LogListener) OnUserRegistered(_ context.Context, e UserRegistered) error {
	l.log.WithFields(logrus.Fields{
		"event":    NameUserRegistered,
		"user_id":  e.UserID,
		"username": e.Username,
	}).Info("User registered")
	return nil
}

func (l *LogListener) OnUserDeleted(_ context.Context, e UserDeleted) error {
	l.log.WithFields(logrus.Fields{
		"event":   NameUserDeleted,
		"user_id": e.UserID,
	}).Info("User deleted")
	return nil
}
