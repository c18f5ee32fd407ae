package converter

import (
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"
)

func CustomerToResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}

	return &dto.CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func CustomersToResponses(customers []entity.Customer) []dto.CustomerResponse {
	responses := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = *CustomerToResponse(&customers[i])
	}
	return responses
}
