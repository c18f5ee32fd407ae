package handler

import (
	"net/http"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"
)

type CompanyHandler struct {
	companyUsecase usecase.CompanyUsecase
	validator      *validator.CustomValidator
}

func NewCompanyHandler(companyUsecase usecase.CompanyUsecase, validator *validator.CustomValidator) *CompanyHandler {
	return &CompanyHandler{
		companyUsecase: companyUsecase,
		validator:      validator,
	}
}

// Create handles company creation
// @Summary Create a company
// @Tags Companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCompanyRequest true "Create Company Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /companies [post]
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCompanyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	company, err := h.companyUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create company")
		return
	}

	response.Success(w, http.StatusCreated, "Company created successfully", company)
}

// GetAll handles listing companies
// @Summary List companies
// @Tags Companies
// @Security BearerAuth
// @Produce json
// @Param name query string false "Name contains"
// @Param active query bool false "Only active companies"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /companies [get]
func (h *CompanyHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := dto.CompanyQuery{
		PageQuery:  pageQuery(r),
		Name:       r.URL.Query().Get("name"),
		ActiveOnly: queryBool(r, "active"),
	}

	companies, total, err := h.companyUsecase.GetAll(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get companies")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Companies retrieved successfully", companies, pageMeta(query.PageQuery, total))
}

func (h *CompanyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "company")
	if !ok {
		return
	}

	company, err := h.companyUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get company")
		return
	}

	response.Success(w, http.StatusOK, "Company retrieved successfully", company)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "company")
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	company, err := h.companyUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update company")
		return
	}

	response.Success(w, http.StatusOK, "Company updated successfully", company)
}

func (h *CompanyHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *CompanyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *CompanyHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := pathUUID(w, r, "id", "company")
	if !ok {
		return
	}

	company, err := h.companyUsecase.SetActive(r.Context(), id, active)
	if err != nil {
		writeError(w, err, "Failed to update company")
		return
	}

	message := "Company deactivated successfully"
	if active {
		message = "Company activated successfully"
	}
	response.Success(w, http.StatusOK, message, company)
}

// Delete handles company deletion. Companies that still own records
// cannot be deleted.
// @Summary Delete a company
// @Tags Companies
// @Security BearerAuth
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /companies/{id} [delete]
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "company")
	if !ok {
		return
	}

	if err := h.companyUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete company")
		return
	}

	response.Success(w, http.StatusOK, "Company deleted successfully", nil)
}
