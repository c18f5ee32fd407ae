package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateLocationRequest struct {
	CompanyID uuid.UUID        `json:"company_id" validate:"required"`
	Name      string           `json:"name" validate:"required,min=2,max=255"`
	Address   string           `json:"address" validate:"max=255"`
	City      string           `json:"city" validate:"max=100"`
	State     string           `json:"state" validate:"max=100"`
	ZipCode   string           `json:"zip_code" validate:"max=20"`
	Country   string           `json:"country" validate:"max=100"`
	Phone     string           `json:"phone" validate:"max=30"`
	Email     string           `json:"email" validate:"omitempty,email"`
	Latitude  *decimal.Decimal `json:"latitude"`
	Longitude *decimal.Decimal `json:"longitude"`
	IsActive  *bool            `json:"is_active"`
}

type UpdateLocationRequest struct {
	Name      string           `json:"name" validate:"required,min=2,max=255"`
	Address   string           `json:"address" validate:"max=255"`
	City      string           `json:"city" validate:"max=100"`
	State     string           `json:"state" validate:"max=100"`
	ZipCode   string           `json:"zip_code" validate:"max=20"`
	Country   string           `json:"country" validate:"max=100"`
	Phone     string           `json:"phone" validate:"max=30"`
	Email     string           `json:"email" validate:"omitempty,email"`
	Latitude  *decimal.Decimal `json:"latitude"`
	Longitude *decimal.Decimal `json:"longitude"`
	IsActive  *bool            `json:"is_active"`
}

// Response DTOs

type LocationResponse struct {
	ID        uuid.UUID        `json:"id"`
	CompanyID uuid.UUID        `json:"company_id"`
	Name      string           `json:"name"`
	Address   string           `json:"address,omitempty"`
	City      string           `json:"city,omitempty"`
	State     string           `json:"state,omitempty"`
	ZipCode   string           `json:"zip_code,omitempty"`
	Country   string           `json:"country,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Email     string           `json:"email,omitempty"`
	Latitude  *decimal.Decimal `json:"latitude,omitempty"`
	Longitude *decimal.Decimal `json:"longitude,omitempty"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
