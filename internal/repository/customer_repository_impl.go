package repository

import (
	"beauty-center-backend/internal/domain/entity"
	domainRepo "beauty-center-backend/internal/domain/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepository struct{}

func NewCustomerRepository() domainRepo.CustomerRepository {
	return &customerRepository{}
}

func (r *customerRepository) Create(db *gorm.DB, customer *entity.Customer) error {
	return db.Create(customer).Error
}

func (r *customerRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	found, err := first(db.Where("id = ?", id), &customer)
	if err != nil || !found {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindAll(db *gorm.DB, filter entity.CustomerFilter) ([]entity.Customer, int64, error) {
	cond := sq.And{}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		cond = append(cond, sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
			sq.ILike{"email": pattern},
		})
	}

	query, err := where(db.Model(&entity.Customer{}), cond)
	if err != nil {
		return nil, 0, err
	}

	var customers []entity.Customer
	total, err := paginate(query, filter.Page, "last_name ASC, first_name ASC", &customers)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *customerRepository) Update(db *gorm.DB, customer *entity.Customer) error {
	return db.Save(customer).Error
}

func (r *customerRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Customer{})
	return result.RowsAffected, result.Error
}
