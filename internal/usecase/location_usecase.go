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
	ErrLocationNotFound = errors.New("location not found")
)

type LocationUsecase interface {
	Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.LocationResponse, error)
	GetAll(ctx context.Context, query dto.CatalogQuery) ([]dto.LocationResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type locationUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	locationRepo repository.LocationRepository
	companyRepo  repository.CompanyRepository
}

func NewLocationUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	locationRepo repository.LocationRepository,
	companyRepo repository.CompanyRepository,
) LocationUsecase {
	return &locationUsecase{
		txManager:    txManager,
		log:          log,
		locationRepo: locationRepo,
		companyRepo:  companyRepo,
	}
}

func (u *locationUsecase) Create(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	location := &entity.Location{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		Phone:     req.Phone,
		Email:     req.Email,
		Latitude:  converter.ToNullDecimal(req.Latitude),
		Longitude: converter.ToNullDecimal(req.Longitude),
		IsActive:  boolOr(req.IsActive, true),
	}

	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := companyExists(tx, u.log, u.companyRepo, req.CompanyID); err != nil {
			return err
		}
		if err := u.locationRepo.Create(tx, location); err != nil {
			u.log.Warnf("Failed to create location: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.LocationToResponse(location), nil
}

func (u *locationUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.LocationResponse, error) {
	location, err := u.locationRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find location %s: %+v", id, err)
		return nil, err
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}

	return converter.LocationToResponse(location), nil
}

func (u *locationUsecase) GetAll(ctx context.Context, query dto.CatalogQuery) ([]dto.LocationResponse, int64, error) {
	locations, total, err := u.locationRepo.FindAll(u.txManager.Conn(ctx), catalogFilter(query))
	if err != nil {
		u.log.Warnf("Failed to find locations: %+v", err)
		return nil, 0, err
	}

	return converter.LocationsToResponses(locations), total, nil
}

func (u *locationUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	var location *entity.Location
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		l, err := u.locationRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find location %s: %+v", id, err)
			return err
		}
		if l == nil {
			return ErrLocationNotFound
		}

		l.Name = req.Name
		l.Address = req.Address
		l.City = req.City
		l.State = req.State
		l.ZipCode = req.ZipCode
		l.Country = req.Country
		l.Phone = req.Phone
		l.Email = req.Email
		l.Latitude = converter.ToNullDecimal(req.Latitude)
		l.Longitude = converter.ToNullDecimal(req.Longitude)
		l.IsActive = boolOr(req.IsActive, l.IsActive)

		if err := u.locationRepo.Update(tx, l); err != nil {
			u.log.Warnf("Failed to update location %s: %+v", id, err)
			return err
		}
		location = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.LocationToResponse(location), nil
}

func (u *locationUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := u.locationRepo.Delete(u.txManager.Conn(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete location %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func catalogFilter(query dto.CatalogQuery) entity.CatalogFilter {
	return entity.CatalogFilter{
		CompanyID:  query.CompanyID,
		ActiveOnly: query.ActiveOnly,
		Page:       query.ToPage(),
	}
}

func companyExists(tx *gorm.DB, log *logrus.Logger, repo repository.CompanyRepository, id uuid.UUID) error {
	company, err := repo.FindByID(tx, id)
	if err != nil {
		log.Warnf("Failed to find company %s: %+v", id, err)
		return err
	}
	if company == nil {
		return ErrCompanyNotFound
	}
	return nil
}
