package converter

import (
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"
)

func CompanyToResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}

	return &dto.CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		ZipCode:     c.ZipCode,
		Country:     c.Country,
		Phone:       c.Phone,
		Email:       c.Email,
		Website:     c.Website,
		LogoURL:     c.LogoURL,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func CompaniesToResponses(companies []entity.Company) []dto.CompanyResponse {
	responses := make([]dto.CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = *CompanyToResponse(&companies[i])
	}
	return responses
}
