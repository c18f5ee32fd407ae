package repository

import (
	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(db *gorm.DB, company *entity.Company) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Company, error)
	FindAll(db *gorm.DB, filter entity.CompanyFilter) ([]entity.Company, int64, error)
	Update(db *gorm.DB, company *entity.Company) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
