package repository

import (
	"beauty-center-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationRepository interface {
	Create(db *gorm.DB, location *entity.Location) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Location, error)
	FindAll(db *gorm.DB, filter entity.CatalogFilter) ([]entity.Location, int64, error)
	Update(db *gorm.DB, location *entity.Location) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
