package converter

import (
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// The primary service is included when preloaded.
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:                 a.ID,
		CompanyID:          a.CompanyID,
		EmployeeID:         a.EmployeeID,
		CustomerID:         a.CustomerID,
		ServiceID:          a.ServiceID,
		Service:            ServiceToResponse(a.Service),
		AdditionalServices: ServicesToResponses(a.AdditionalServices),
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		DurationMinutes:    a.DurationMinutes(),
		Status:             string(a.Status),
		Notes:              a.Notes,
		TotalPrice:         a.TotalPrice,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
