package repository

import (
	"beauty-center-backend/internal/domain/entity"
	domainRepo "beauty-center-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type employeeRepository struct{}

func NewEmployeeRepository() domainRepo.EmployeeRepository {
	return &employeeRepository{}
}

func (r *employeeRepository) Create(db *gorm.DB, employee *entity.Employee) error {
	return db.Create(employee).Error
}

func (r *employeeRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	found, err := first(db.Where("id = ?", id), &employee)
	if err != nil || !found {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	found, err := first(db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id), &employee)
	if err != nil || !found {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindAll(db *gorm.DB, filter entity.CatalogFilter) ([]entity.Employee, int64, error) {
	query, err := where(db.Model(&entity.Employee{}), catalogCondition(filter))
	if err != nil {
		return nil, 0, err
	}

	var employees []entity.Employee
	total, err := paginate(query, filter.Page, "last_name ASC, first_name ASC", &employees)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepository) Update(db *gorm.DB, employee *entity.Employee) error {
	return db.Save(employee).Error
}

func (r *employeeRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Employee{})
	return result.RowsAffected, result.Error
}
