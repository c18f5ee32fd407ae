package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateUserRequest struct {
	Username  string     `json:"username" validate:"required,min=3,max=100"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8,max=72"`
	FirstName string     `json:"first_name" validate:"max=100"`
	LastName  string     `json:"last_name" validate:"max=100"`
	Phone     string     `json:"phone" validate:"max=30"`
	CompanyID *uuid.UUID `json:"company_id"`
	RoleIDs   []int      `json:"role_ids" validate:"omitempty,dive,gte=1,lte=5"`
}

type UpdateUserRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	FirstName string     `json:"first_name" validate:"max=100"`
	LastName  string     `json:"last_name" validate:"max=100"`
	Phone     string     `json:"phone" validate:"max=30"`
	CompanyID *uuid.UUID `json:"company_id"`
	IsActive  *bool      `json:"is_active"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type UserQuery struct {
	PageQuery
	RoleID    *int
	CompanyID *uuid.UUID
}

// Response DTOs

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	IsActive  bool       `json:"is_active"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Roles     []string   `json:"roles"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
