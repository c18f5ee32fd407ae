package converter

import (
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func LocationToResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}

	return &dto.LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		Name:      l.Name,
		Address:   l.Address,
		City:      l.City,
		State:     l.State,
		ZipCode:   l.ZipCode,
		Country:   l.Country,
		Phone:     l.Phone,
		Email:     l.Email,
		Latitude:  fromNullDecimal(l.Latitude),
		Longitude: fromNullDecimal(l.Longitude),
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func LocationsToResponses(locations []entity.Location) []dto.LocationResponse {
	responses := make([]dto.LocationResponse, len(locations))
	for i := range locations {
		responses[i] = *LocationToResponse(&locations[i])
	}
	return responses
}

// ToNullDecimal maps an optional request value onto a nullable column.
func ToNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
