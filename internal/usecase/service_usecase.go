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
	ErrServiceNotFound = errors.New("service not found")
)

type ServiceUsecase interface {
	Create(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error)
	GetAll(ctx context.Context, query dto.CatalogQuery) ([]dto.ServiceResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type serviceUsecase struct {
	txManager   repository.TxManager
	log         *logrus.Logger
	serviceRepo repository.ServiceRepository
	companyRepo repository.CompanyRepository
}

func NewServiceUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	serviceRepo repository.ServiceRepository,
	companyRepo repository.CompanyRepository,
) ServiceUsecase {
	return &serviceUsecase{
		txManager:   txManager,
		log:         log,
		serviceRepo: serviceRepo,
		companyRepo: companyRepo,
	}
}

func (u *serviceUsecase) Create(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	svc := &entity.Service{
		CompanyID:       req.CompanyID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        req.Category,
		IsActive:        boolOr(req.IsActive, true),
	}

	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := companyExists(tx, u.log, u.companyRepo, req.CompanyID); err != nil {
			return err
		}
		if err := u.serviceRepo.Create(tx, svc); err != nil {
			u.log.Warnf("Failed to create service: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.ServiceToResponse(svc), nil
}

func (u *serviceUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error) {
	svc, err := u.serviceRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", id, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	return converter.ServiceToResponse(svc), nil
}

func (u *serviceUsecase) GetAll(ctx context.Context, query dto.CatalogQuery) ([]dto.ServiceResponse, int64, error) {
	services, total, err := u.serviceRepo.FindAll(u.txManager.Conn(ctx), catalogFilter(query))
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, 0, err
	}

	return converter.ServicesToResponses(services), total, nil
}

func (u *serviceUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	var svc *entity.Service
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		s, err := u.serviceRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find service %s: %+v", id, err)
			return err
		}
		if s == nil {
			return ErrServiceNotFound
		}

		s.Name = req.Name
		s.Description = req.Description
		s.DurationMinutes = req.DurationMinutes
		s.Price = req.Price
		s.Category = req.Category
		s.IsActive = boolOr(req.IsActive, s.IsActive)

		if err := u.serviceRepo.Update(tx, s); err != nil {
			u.log.Warnf("Failed to update service %s: %+v", id, err)
			return err
		}
		svc = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.ServiceToResponse(svc), nil
}

func (u *serviceUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := u.serviceRepo.Delete(u.txManager.Conn(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete service %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrServiceNotFound
	}
	return nil
}
