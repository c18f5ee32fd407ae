package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusRequested  AppointmentStatus = "REQUESTED"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// ActiveAppointmentStatuses are the statuses that occupy a slot.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusRequested,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusRequested, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether an appointment in this status blocks its slot.
func (s AppointmentStatus) IsActive() bool {
	switch s {
	case AppointmentStatusRequested, AppointmentStatusConfirmed, AppointmentStatusInProgress:
		return true
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return s.IsValid() && !s.IsActive()
}

// AppointmentTrigger names a lifecycle operation.
type AppointmentTrigger string

const (
	TriggerConfirm  AppointmentTrigger = "confirm"
	TriggerStart    AppointmentTrigger = "start"
	TriggerComplete AppointmentTrigger = "complete"
	TriggerCancel   AppointmentTrigger = "cancel"
	TriggerNoShow   AppointmentTrigger = "no_show"
)

type transition struct {
	from []AppointmentStatus
	to   AppointmentStatus
}

// Nothing leaves a terminal state.
var appointmentTransitions = map[AppointmentTrigger]transition{
	TriggerConfirm:  {from: []AppointmentStatus{AppointmentStatusRequested}, to: AppointmentStatusConfirmed},
	TriggerStart:    {from: []AppointmentStatus{AppointmentStatusConfirmed}, to: AppointmentStatusInProgress},
	TriggerComplete: {from: []AppointmentStatus{AppointmentStatusInProgress}, to: AppointmentStatusCompleted},
	TriggerCancel:   {from: []AppointmentStatus{AppointmentStatusRequested, AppointmentStatusConfirmed}, to: AppointmentStatusCancelled},
	TriggerNoShow:   {from: []AppointmentStatus{AppointmentStatusConfirmed}, to: AppointmentStatusNoShow},
}

var (
	ErrInvalidTransition = errors.New("invalid appointment status transition")
	ErrUnknownTrigger    = errors.New("unknown appointment trigger")
)

// Appointment is a booking of an employee's time for a customer.
type Appointment struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_company_employee_time,priority:1" json:"company_id"`
	EmployeeID uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_company_employee_time,priority:2" json:"employee_id"`
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	ServiceID  uuid.UUID         `gorm:"type:uuid;not null" json:"service_id"`
	StartTime  time.Time         `gorm:"type:timestamptz;not null;index:idx_appointments_company_employee_time,priority:3" json:"start_time"`
	EndTime    time.Time         `gorm:"type:timestamptz;not null" json:"end_time"`
	Status     AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes      string            `gorm:"type:text" json:"notes,omitempty"`
	TotalPrice decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_price"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Service            *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	AdditionalServices []Service `gorm:"many2many:appointment_services;" json:"additional_services,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentServiceLink is a row of the appointment_services join table.
type AppointmentServiceLink struct {
	AppointmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID     uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (AppointmentServiceLink) TableName() string {
	return "appointment_services"
}

// CanApply reports whether trigger is allowed from the current status.
func (a *Appointment) CanApply(trigger AppointmentTrigger) bool {
	t, ok := appointmentTransitions[trigger]
	if !ok {
		return false
	}
	for _, from := range t.from {
		if a.Status == from {
			return true
		}
	}
	return false
}

// Apply moves the appointment along trigger. The status is left untouched
// when the transition is not allowed.
func (a *Appointment) Apply(trigger AppointmentTrigger) error {
	t, ok := appointmentTransitions[trigger]
	if !ok {
		return ErrUnknownTrigger
	}
	if !a.CanApply(trigger) {
		return ErrInvalidTransition
	}
	a.Status = t.to
	return nil
}

func (a *Appointment) Confirm() error    { return a.Apply(TriggerConfirm) }
func (a *Appointment) Start() error      { return a.Apply(TriggerStart) }
func (a *Appointment) Complete() error   { return a.Apply(TriggerComplete) }
func (a *Appointment) Cancel() error     { return a.Apply(TriggerCancel) }
func (a *Appointment) MarkNoShow() error { return a.Apply(TriggerNoShow) }

// IsActive reports whether the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// Overlaps uses half-open [start, end) semantics: touching endpoints do not overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

func (a *Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

func (a *Appointment) DurationMinutes() int {
	return int(a.Duration() / time.Minute)
}

func (a *Appointment) IsFuture(now time.Time) bool {
	return a.StartTime.After(now)
}

func (a *Appointment) HasService(serviceID uuid.UUID) bool {
	for _, s := range a.AdditionalServices {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}

// AddService appends svc to the additional services. It returns false when
// the service is already attached.
func (a *Appointment) AddService(svc Service) bool {
	if a.HasService(svc.ID) {
		return false
	}
	a.AdditionalServices = append(a.AdditionalServices, svc)
	return true
}

// RemoveService detaches a service and returns it, or nil when it was not attached.
func (a *Appointment) RemoveService(serviceID uuid.UUID) *Service {
	for i, s := range a.AdditionalServices {
		if s.ID == serviceID {
			removed := s
			a.AdditionalServices = append(a.AdditionalServices[:i:i], a.AdditionalServices[i+1:]...)
			return &removed
		}
	}
	return nil
}

// ServiceIDs returns the IDs of the additional services.
func (a *Appointment) ServiceIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a.AdditionalServices))
	for _, s := range a.AdditionalServices {
		ids = append(ids, s.ID)
	}
	return ids
}

// Slot identifies an employee's time window within a company.
type Slot struct {
	CompanyID  uuid.UUID
	EmployeeID uuid.UUID
	Start      time.Time
	End        time.Time
	// ExcludeID skips one appointment, used when rescheduling it.
	ExcludeID *uuid.UUID
}

// Valid reports whether all identifiers are set and End is after Start.
func (s Slot) Valid() bool {
	return s.CompanyID != uuid.Nil && s.EmployeeID != uuid.Nil &&
		!s.Start.IsZero() && !s.End.IsZero() && s.End.After(s.Start)
}

// AppointmentFilter narrows appointment listings. The From/To window uses
// the same half-open overlap rule as slot checks.
type AppointmentFilter struct {
	CompanyID  *uuid.UUID
	EmployeeID *uuid.UUID
	CustomerID *uuid.UUID
	Status     *AppointmentStatus
	From       *time.Time
	To         *time.Time
	Page       Page
}
