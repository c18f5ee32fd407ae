package event

import (
	"context"
	"time"

	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// Event names, also used as message types on the notification transport.
const (
	NameAppointmentCreated       = "appointment.created"
	NameAppointmentStatusChanged = "appointment.status_changed"
	NameAppointmentDeleted       = "appointment.deleted"
	NameUserRegistered           = "user.registered"
	NameUserDeleted              = "user.deleted"
)

type AppointmentCreated struct {
	Appointment entity.Appointment `json:"appointment"`
	ActorID     *uuid.UUID         `json:"actor_id,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type AppointmentStatusChanged struct {
	Appointment entity.Appointment       `json:"appointment"`
	OldStatus   entity.AppointmentStatus `json:"old_status"`
	NewStatus   entity.AppointmentStatus `json:"new_status"`
	ActorID     *uuid.UUID               `json:"actor_id,omitempty"`
	OccurredAt  time.Time                `json:"occurred_at"`
}

type AppointmentDeleted struct {
	AppointmentID uuid.UUID  `json:"appointment_id"`
	CompanyID     uuid.UUID  `json:"company_id"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

type UserRegistered struct {
	UserID     uuid.UUID  `json:"user_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type UserDeleted struct {
	UserID     uuid.UUID  `json:"user_id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// AppointmentListener reacts to appointment lifecycle events.
type AppointmentListener interface {
	Name() string
	OnAppointmentCreated(ctx context.Context, e AppointmentCreated) error
	OnAppointmentStatusChanged(ctx context.Context, e AppointmentStatusChanged) error
	OnAppointmentDeleted(ctx context.Context, e AppointmentDeleted) error
}

// UserListener reacts to account events.
type UserListener interface {
	Name() string
	OnUserRegistered(ctx context.Context, e UserRegistered) error
	OnUserDeleted(ctx context.Context, e UserDeleted) error
}

// Publisher is what application code uses to announce committed changes.
type Publisher interface {
	PublishAppointmentCreated(ctx context.Context, e AppointmentCreated)
	PublishAppointmentStatusChanged(ctx context.Context, e AppointmentStatusChanged)
	PublishAppointmentDeleted(ctx context.Context, e AppointmentDeleted)
	PublishUserRegistered(ctx context.Context, e UserRegistered)
	PublishUserDeleted(ctx context.Context, e UserDeleted)
}
