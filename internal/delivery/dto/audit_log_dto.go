package dto

import (
	"time"

	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
)

type AuditLogQuery struct {
	PageQuery
	Action string
	UserID *uuid.UUID
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	UserID    *uuid.UUID  `json:"user_id,omitempty"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}
