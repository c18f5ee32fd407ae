package repository

import (
	"beauty-center-backend/internal/domain/entity"
	domainRepo "beauty-center-backend/internal/domain/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type locationRepository struct{}

func NewLocationRepository() domainRepo.LocationRepository {
	return &locationRepository{}
}

func (r *locationRepository) Create(db *gorm.DB, location *entity.Location) error {
	return db.Omit("Company").Create(location).Error
}

func (r *locationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Location, error) {
	var location entity.Location
	found, err := first(db.Where("id = ?", id), &location)
	if err != nil || !found {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) FindAll(db *gorm.DB, filter entity.CatalogFilter) ([]entity.Location, int64, error) {
	query, err := where(db.Model(&entity.Location{}), catalogCondition(filter))
	if err != nil {
		return nil, 0, err
	}

	var locations []entity.Location
	total, err := paginate(query, filter.Page, "name ASC", &locations)
	if err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

func (r *locationRepository) Update(db *gorm.DB, location *entity.Location) error {
	return db.Omit("Company").Save(location).Error
}

func (r *locationRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Location{})
	return result.RowsAffected, result.Error
}

// catalogCondition is shared by the company-scoped catalog tables.
func catalogCondition(filter entity.CatalogFilter) sq.And {
	cond := sq.And{}
	if filter.CompanyID != nil {
		cond = append(cond, sq.Eq{"company_id": filter.CompanyID.String()})
	}
	if filter.ActiveOnly {
		cond = append(cond, sq.Eq{"is_active": true})
	}
	return cond
}
