package usecase

import (
	"context"
	"errors"

	"beauty-center-backend/internal/converter"
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/delivery/http/middleware"
	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/domain/repository"
	"beauty-center-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrResourceInUse     = errors.New("resource is still referenced by other records")
	ErrReferenceNotFound = errors.New("referenced resource does not exist")
)

type CompanyUsecase interface {
	Create(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error)
	GetAll(ctx context.Context, query dto.CompanyQuery) ([]dto.CompanyResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*dto.CompanyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	companyRepo  repository.CompanyRepository
	auditService service.AuditService
}

func NewCompanyUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	companyRepo repository.CompanyRepository,
	auditService service.AuditService,
) CompanyUsecase {
	return &companyUsecase{
		txManager:    txManager,
		log:          log,
		companyRepo:  companyRepo,
		auditService: auditService,
	}
}

func (u *companyUsecase) Create(ctx context.Context, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	company := &entity.Company{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Country:     req.Country,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		IsActive:    boolOr(req.IsActive, true),
	}

	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := u.companyRepo.Create(tx, company); err != nil {
			u.log.Warnf("Failed to create company: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, middleware.ActorFromContext(ctx),
			entity.AuditActionCompanyCreate, "company", company.ID.String(), company)
	})
	if err != nil {
		return nil, err
	}

	return converter.CompanyToResponse(company), nil
}

func (u *companyUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.CompanyResponse, error) {
	company, err := u.companyRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find company %s: %+v", id, err)
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	return converter.CompanyToResponse(company), nil
}

func (u *companyUsecase) GetAll(ctx context.Context, query dto.CompanyQuery) ([]dto.CompanyResponse, int64, error) {
	companies, total, err := u.companyRepo.FindAll(u.txManager.Conn(ctx), entity.CompanyFilter{
		Name:       query.Name,
		ActiveOnly: query.ActiveOnly,
		Page:       query.ToPage(),
	})
	if err != nil {
		u.log.Warnf("Failed to find companies: %+v", err)
		return nil, 0, err
	}

	return converter.CompaniesToResponses(companies), total, nil
}

func (u *companyUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	return u.modify(ctx, id, func(c *entity.Company) {
		c.Name = req.Name
		c.Description = req.Description
		c.Address = req.Address
		c.City = req.City
		c.State = req.State
		c.ZipCode = req.ZipCode
		c.Country = req.Country
		c.Phone = req.Phone
		c.Email = req.Email
		c.Website = req.Website
		c.LogoURL = req.LogoURL
		c.IsActive = boolOr(req.IsActive, c.IsActive)
	})
}

func (u *companyUsecase) SetActive(ctx context.Context, id uuid.UUID, active bool) (*dto.CompanyResponse, error) {
	return u.modify(ctx, id, func(c *entity.Company) {
		c.IsActive = active
	})
}

func (u *companyUsecase) modify(ctx context.Context, id uuid.UUID, apply func(*entity.Company)) (*dto.CompanyResponse, error) {
	var company *entity.Company
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		c, err := u.companyRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find company %s: %+v", id, err)
			return err
		}
		if c == nil {
			return ErrCompanyNotFound
		}

		old := *c
		apply(c)

		if err := u.companyRepo.Update(tx, c); err != nil {
			u.log.Warnf("Failed to update company %s: %+v", id, err)
			return err
		}

		company = c
		return u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx),
			entity.AuditActionCompanyUpdate, "company", id.String(), old, c)
	})
	if err != nil {
		return nil, err
	}

	return converter.CompanyToResponse(company), nil
}

func (u *companyUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.txManager.Do(ctx, func(tx *gorm.DB) error {
		company, err := u.companyRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find company %s: %+v", id, err)
			return err
		}
		if company == nil {
			return ErrCompanyNotFound
		}

		if _, err := u.companyRepo.Delete(tx, id); err != nil {
			if isForeignKeyError(err, "") {
				return ErrResourceInUse
			}
			u.log.Warnf("Failed to delete company %s: %+v", id, err)
			return err
		}

		return u.auditService.LogDelete(ctx, tx, middleware.ActorFromContext(ctx),
			entity.AuditActionCompanyDelete, "company", id.String(), company)
	})
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
