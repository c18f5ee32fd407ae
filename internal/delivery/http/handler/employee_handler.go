package handler

import (
	"net/http"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"
)

type EmployeeHandler struct {
	employeeUsecase usecase.EmployeeUsecase
	validator       *validator.CustomValidator
}

func NewEmployeeHandler(employeeUsecase usecase.EmployeeUsecase, validator *validator.CustomValidator) *EmployeeHandler {
	return &EmployeeHandler{
		employeeUsecase: employeeUsecase,
		validator:       validator,
	}
}

// Create handles employee creation
// @Summary Create an employee
// @Tags Employees
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEmployeeRequest true "Create Employee Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees [post]
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	employee, err := h.employeeUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create employee")
		return
	}

	response.Success(w, http.StatusCreated, "Employee created successfully", employee)
}

// GetAll handles listing employees, either all of them or those of the
// company in the route.
// @Summary List employees
// @Tags Employees
// @Security BearerAuth
// @Produce json
// @Param company_id query string false "Company ID"
// @Param active query bool false "Only active employees"
// @Success 200 {object} response.Response
// @Router /employees [get]
// @Router /companies/{companyId}/employees [get]
func (h *EmployeeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query, ok := catalogQuery(w, r)
	if !ok {
		return
	}

	employees, total, err := h.employeeUsecase.GetAll(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get employees")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Employees retrieved successfully", employees, pageMeta(query.PageQuery, total))
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}

	employee, err := h.employeeUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get employee")
		return
	}

	response.Success(w, http.StatusOK, "Employee retrieved successfully", employee)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	employee, err := h.employeeUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update employee")
		return
	}

	response.Success(w, http.StatusOK, "Employee updated successfully", employee)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "employee")
	if !ok {
		return
	}

	if err := h.employeeUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete employee")
		return
	}

	response.Success(w, http.StatusOK, "Employee deleted successfully", nil)
}
