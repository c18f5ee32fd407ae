package repository

import (
	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindByIDForUpdate row-locks the appointment until the transaction ends.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindOverlapping returns active appointments of the slot's employee whose
	// [start, end) interval overlaps the slot.
	FindOverlapping(db *gorm.DB, slot entity.Slot) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	// Save updates the row and replaces its additional service links.
	Save(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
