package event

import (
	"context"
	"encoding/json"
	"time"

	"beauty-center-backend/internal/domain/entity"
)

// MessagePublisher is a broker transport (RabbitMQ, Kafka).
type MessagePublisher interface {
	Publish(ctx context.Context, eventType, key string, body []byte) error
}

// Notification is the message body sent to the broker.
type Notification struct {
	Event         string                   `json:"event"`
	AppointmentID string                   `json:"appointment_id"`
	CompanyID     string                   `json:"company_id"`
	CustomerID    string                   `json:"customer_id"`
	EmployeeID    string                   `json:"employee_id"`
	StartTime     time.Time                `json:"start_time"`
	EndTime       time.Time                `json:"end_time"`
	OldStatus     entity.AppointmentStatus `json:"old_status,omitempty"`
	Status        entity.AppointmentStatus `json:"status"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// notifiedStatuses are the status changes customers get told about.
var notifiedStatuses = map[entity.AppointmentStatus]bool{
	entity.AppointmentStatusConfirmed: true,
	entity.AppointmentStatusCancelled: true,
	entity.AppointmentStatusCompleted: true,
}

// NotificationListener forwards customer-facing appointment events to a broker
// for the notification workers.
type NotificationListener struct {
	publisher MessagePublisher
}

func NewNotificationListener(publisher MessagePublisher) *NotificationListener {
	return &NotificationListener{publisher: publisher}
}

func (l *NotificationListener) Name() string { return "notification" }

func (l *NotificationListener) OnAppointmentCreated(ctx context.Context, e AppointmentCreated) error {
	n := newNotification(NameAppointmentCreated, e.Appointment, e.OccurredAt)
	return l.send(ctx, n)
}

func (l *NotificationListener) OnAppointmentStatusChanged(ctx context.Context, e AppointmentStatusChanged) error {
	if !notifiedStatuses[e.NewStatus] {
		return nil
	}
	n := newNotification(NameAppointmentStatusChanged, e.Appointment, e.OccurredAt)
	n.OldStatus = e.OldStatus
	n.Status = e.NewStatus
	return l.send(ctx, n)
}

func (l *NotificationListener) OnAppointmentDeleted(context.Context, AppointmentDeleted) error {
	return nil
}

func (l *NotificationListener) send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return l.publisher.Publish(ctx, n.Event, n.AppointmentID, body)
}

func newNotification(name string, a entity.Appointment, at time.Time) Notification {
	return Notification{
		Event:         name,
		AppointmentID: a.ID.String(),
		CompanyID:     a.CompanyID.String(),
		CustomerID:    a.CustomerID.String(),
		EmployeeID:    a.EmployeeID.String(),
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        a.Status,
		OccurredAt:    at,
	}
}
