package repository

import (
	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(db *gorm.DB, employee *entity.Employee) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Employee, error)
	// FindByIDForUpdate row-locks the employee until the transaction ends.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Employee, error)
	FindAll(db *gorm.DB, filter entity.CatalogFilter) ([]entity.Employee, int64, error)
	Update(db *gorm.DB, employee *entity.Employee) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
