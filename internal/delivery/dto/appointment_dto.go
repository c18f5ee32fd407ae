package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateAppointmentRequest books a slot. EndTime defaults to the primary
// service duration and TotalPrice to the sum of the service prices.
type CreateAppointmentRequest struct {
	CompanyID            uuid.UUID        `json:"company_id" validate:"required"`
	EmployeeID           uuid.UUID        `json:"employee_id" validate:"required"`
	CustomerID           uuid.UUID        `json:"customer_id" validate:"required"`
	ServiceID            uuid.UUID        `json:"service_id" validate:"required"`
	AdditionalServiceIDs []uuid.UUID      `json:"additional_service_ids"`
	StartTime            time.Time        `json:"start_time" validate:"required"`
	EndTime              *time.Time       `json:"end_time"`
	Notes                string           `json:"notes" validate:"max=2000"`
	TotalPrice           *decimal.Decimal `json:"total_price"`
}

// UpdateAppointmentRequest changes only the fields that are present.
type UpdateAppointmentRequest struct {
	EmployeeID *uuid.UUID       `json:"employee_id"`
	StartTime  *time.Time       `json:"start_time"`
	EndTime    *time.Time       `json:"end_time"`
	Notes      *string          `json:"notes" validate:"omitempty,max=2000"`
	TotalPrice *decimal.Decimal `json:"total_price"`
}

type AppointmentQuery struct {
	PageQuery
	CompanyID  *uuid.UUID
	EmployeeID *uuid.UUID
	CustomerID *uuid.UUID
	Status     string `validate:"omitempty,oneof=REQUESTED CONFIRMED IN_PROGRESS COMPLETED CANCELLED NO_SHOW"`
	From       *time.Time
	To         *time.Time
}

type AvailabilityQuery struct {
	CompanyID  uuid.UUID `json:"company_id" validate:"required"`
	EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required,gtfield=Start"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                 uuid.UUID         `json:"id"`
	CompanyID          uuid.UUID         `json:"company_id"`
	EmployeeID         uuid.UUID         `json:"employee_id"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	ServiceID          uuid.UUID         `json:"service_id"`
	Service            *ServiceResponse  `json:"service,omitempty"`
	AdditionalServices []ServiceResponse `json:"additional_services"`
	StartTime          time.Time         `json:"start_time"`
	EndTime            time.Time         `json:"end_time"`
	DurationMinutes    int               `json:"duration_minutes"`
	Status             string            `json:"status"`
	Notes              string            `json:"notes,omitempty"`
	TotalPrice         decimal.Decimal   `json:"total_price"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type AvailabilityResponse struct {
	CompanyID  uuid.UUID `json:"company_id"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Available  bool      `json:"available"`
}
