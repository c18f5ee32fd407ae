package handler

import (
	"net/http"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"
)

type CustomerHandler struct {
	customerUsecase usecase.CustomerUsecase
	validator       *validator.CustomValidator
}

func NewCustomerHandler(customerUsecase usecase.CustomerUsecase, validator *validator.CustomValidator) *CustomerHandler {
	return &CustomerHandler{
		customerUsecase: customerUsecase,
		validator:       validator,
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	customer, err := h.customerUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create customer")
		return
	}

	response.Success(w, http.StatusCreated, "Customer created successfully", customer)
}

// GetAll lists customers; ?search matches name or email.
func (h *CustomerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := dto.CustomerQuery{
		PageQuery: pageQuery(r),
		Search:    r.URL.Query().Get("search"),
	}

	customers, total, err := h.customerUsecase.GetAll(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get customers")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Customers retrieved successfully", customers, pageMeta(query.PageQuery, total))
}

func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get customer")
		return
	}

	response.Success(w, http.StatusOK, "Customer retrieved successfully", customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "customer")
	if !ok {
		return
	}

	var req dto.CustomerRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	customer, err := h.customerUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update customer")
		return
	}

	response.Success(w, http.StatusOK, "Customer updated successfully", customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "customer")
	if !ok {
		return
	}

	if err := h.customerUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete customer")
		return
	}

	response.Success(w, http.StatusOK, "Customer deleted successfully", nil)
}
