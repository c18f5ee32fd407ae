package repository

import (
	"beauty-center-backend/internal/domain/entity"
	domainRepo "beauty-center-backend/internal/domain/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type companyRepository struct{}

func NewCompanyRepository() domainRepo.CompanyRepository {
	return &companyRepository{}
}

func (r *companyRepository) Create(db *gorm.DB, company *entity.Company) error {
	return db.Create(company).Error
}

func (r *companyRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Company, error) {
	var company entity.Company
	found, err := first(db.Where("id = ?", id), &company)
	if err != nil || !found {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) FindAll(db *gorm.DB, filter entity.CompanyFilter) ([]entity.Company, int64, error) {
	cond := sq.And{}
	if filter.Name != "" {
		cond = append(cond, sq.ILike{"name": likePattern(filter.Name)})
	}
	if filter.ActiveOnly {
		cond = append(cond, sq.Eq{"is_active": true})
	}

	query, err := where(db.Model(&entity.Company{}), cond)
	if err != nil {
		return nil, 0, err
	}

	var companies []entity.Company
	total, err := paginate(query, filter.Page, "name ASC", &companies)
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *companyRepository) Update(db *gorm.DB, company *entity.Company) error {
	return db.Save(company).Error
}

func (r *companyRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Company{})
	return result.RowsAffected, result.Error
}
