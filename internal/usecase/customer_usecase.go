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
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerEmailExists = errors.New("customer email already exists")
)

type CustomerUsecase interface {
	Create(ctx context.Context, req *dto.CustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	GetAll(ctx context.Context, query dto.CustomerQuery) ([]dto.CustomerResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.CustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	customerRepo repository.CustomerRepository
}

func NewCustomerUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	customerRepo repository.CustomerRepository,
) CustomerUsecase {
	return &customerUsecase{
		txManager:    txManager,
		log:          log,
		customerRepo: customerRepo,
	}
}

func (u *customerUsecase) Create(ctx context.Context, req *dto.CustomerRequest) (*dto.CustomerResponse, error) {
	customer := &entity.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
	}

	if err := u.customerRepo.Create(u.txManager.Conn(ctx), customer); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrCustomerEmailExists
		}
		u.log.Warnf("Failed to create customer: %+v", err)
		return nil, err
	}

	return converter.CustomerToResponse(customer), nil
}

func (u *customerUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := u.customerRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find customer %s: %+v", id, err)
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	return converter.CustomerToResponse(customer), nil
}

func (u *customerUsecase) GetAll(ctx context.Context, query dto.CustomerQuery) ([]dto.CustomerResponse, int64, error) {
	customers, total, err := u.customerRepo.FindAll(u.txManager.Conn(ctx), entity.CustomerFilter{
		Search: query.Search,
		Page:   query.ToPage(),
	})
	if err != nil {
		u.log.Warnf("Failed to find customers: %+v", err)
		return nil, 0, err
	}

	return converter.CustomersToResponses(customers), total, nil
}

func (u *customerUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.CustomerRequest) (*dto.CustomerResponse, error) {
	var customer *entity.Customer
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		c, err := u.customerRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find customer %s: %+v", id, err)
			return err
		}
		if c == nil {
			return ErrCustomerNotFound
		}

		c.FirstName = req.FirstName
		c.LastName = req.LastName
		c.Email = req.Email
		c.Phone = req.Phone
		c.Address = req.Address
		c.Notes = req.Notes

		if err := u.customerRepo.Update(tx, c); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrCustomerEmailExists
			}
			u.log.Warnf("Failed to update customer %s: %+v", id, err)
			return err
		}
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.CustomerToResponse(customer), nil
}

func (u *customerUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := u.customerRepo.Delete(u.txManager.Conn(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete customer %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
