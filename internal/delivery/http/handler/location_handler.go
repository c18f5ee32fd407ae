package handler

import (
	"net/http"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"
)

type LocationHandler struct {
	locationUsecase usecase.LocationUsecase
	validator       *validator.CustomValidator
}

func NewLocationHandler(locationUsecase usecase.LocationUsecase, validator *validator.CustomValidator) *LocationHandler {
	return &LocationHandler{
		locationUsecase: locationUsecase,
		validator:       validator,
	}
}

// Create handles location creation
// @Summary Create a location
// @Tags Locations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateLocationRequest true "Create Location Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /locations [post]
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLocationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	location, err := h.locationUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create location")
		return
	}

	response.Success(w, http.StatusCreated, "Location created successfully", location)
}

// GetAll handles listing locations, either all of them or those of the
// company in the route.
// @Summary List locations
// @Tags Locations
// @Security BearerAuth
// @Produce json
// @Param company_id query string false "Company ID"
// @Param active query bool false "Only active locations"
// @Success 200 {object} response.Response
// @Router /locations [get]
// @Router /companies/{companyId}/locations [get]
func (h *LocationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query, ok := catalogQuery(w, r)
	if !ok {
		return
	}

	locations, total, err := h.locationUsecase.GetAll(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get locations")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Locations retrieved successfully", locations, pageMeta(query.PageQuery, total))
}

func (h *LocationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "location")
	if !ok {
		return
	}

	location, err := h.locationUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get location")
		return
	}

	response.Success(w, http.StatusOK, "Location retrieved successfully", location)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "location")
	if !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	location, err := h.locationUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update location")
		return
	}

	response.Success(w, http.StatusOK, "Location updated successfully", location)
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "location")
	if !ok {
		return
	}

	if err := h.locationUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete location")
		return
	}

	response.Success(w, http.StatusOK, "Location deleted successfully", nil)
}
