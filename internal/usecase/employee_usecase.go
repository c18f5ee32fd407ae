package usecase

import (
	"context"
	"errors"

	"beauty-center-backend/internal/converter"
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
)

type EmployeeUsecase interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.EmployeeResponse, error)
	GetAll(ctx context.Context, query dto.CatalogQuery) ([]dto.EmployeeResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type employeeUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
}

func NewEmployeeUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	employeeRepo repository.EmployeeRepository,
	companyRepo repository.CompanyRepository,
) EmployeeUsecase {
	return &employeeUsecase{
		txManager:    txManager,
		log:          log,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
	}
}

func (u *employeeUsecase) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee := &entity.Employee{
		CompanyID: req.CompanyID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Position:  req.Position,
		IsActive:  boolOr(req.IsActive, true),
	}

	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := companyExists(tx, u.log, u.companyRepo, req.CompanyID); err != nil {
			return err
		}
		if err := u.employeeRepo.Create(tx, employee); err != nil {
			u.log.Warnf("Failed to create employee: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.EmployeeToResponse(employee), nil
}

func (u *employeeUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.EmployeeResponse, error) {
	employee, err := u.employeeRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find employee %s: %+v", id, err)
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	return converter.EmployeeToResponse(employee), nil
}

func (u *employeeUsecase) GetAll(ctx context.Context, query dto.CatalogQuery) ([]dto.EmployeeResponse, int64, error) {
	employees, total, err := u.employeeRepo.FindAll(u.txManager.Conn(ctx), catalogFilter(query))
	if err != nil {
		u.log.Warnf("Failed to find employees: %+v", err)
		return nil, 0, err
	}

	return converter.EmployeesToResponses(employees), total, nil
}

func (u *employeeUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	var employee *entity.Employee
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		e, err := u.employeeRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find employee %s: %+v", id, err)
			return err
		}
		if e == nil {
			return ErrEmployeeNotFound
		}

		e.FirstName = req.FirstName
		e.LastName = req.LastName
		e.Email = req.Email
		e.Phone = req.Phone
		e.Position = req.Position
		e.IsActive = boolOr(req.IsActive, e.IsActive)

		if err := u.employeeRepo.Update(tx, e); err != nil {
			u.log.Warnf("Failed to update employee %s: %+v", id, err)
			return err
		}
		employee = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.EmployeeToResponse(employee), nil
}

func (u *employeeUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := u.employeeRepo.Delete(u.txManager.Conn(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete employee %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
