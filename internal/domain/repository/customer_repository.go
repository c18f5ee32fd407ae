package repository

import (
	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(db *gorm.DB, customer *entity.Customer) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Customer, error)
	FindAll(db *gorm.DB, filter entity.CustomerFilter) ([]entity.Customer, int64, error)
	Update(db *gorm.DB, customer *entity.Customer) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
