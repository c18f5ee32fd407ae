package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// errorStatus maps usecase errors that carry a client-facing meaning.
var errorStatus = []struct {
	err    error
	status int
}{
	{usecase.ErrCompanyNotFound, http.StatusNotFound},
	{usecase.ErrLocationNotFound, http.StatusNotFound},
	{usecase.ErrServiceNotFound, http.StatusNotFound},
	{usecase.ErrEmployeeNotFound, http.StatusNotFound},
	{usecase.ErrCustomerNotFound, http.StatusNotFound},
	{usecase.ErrAppointmentNotFound, http.StatusNotFound},
	{usecase.ErrUserNotFound, http.StatusNotFound},
	{usecase.ErrRoleNotFound, http.StatusNotFound},
	{usecase.ErrAuditLogNotFound, http.StatusNotFound},

	{usecase.ErrSlotConflict, http.StatusConflict},
	{usecase.ErrInvalidTransition, http.StatusConflict},
	{usecase.ErrAppointmentNotActive, http.StatusConflict},
	{usecase.ErrResourceInUse, http.StatusConflict},
	{usecase.ErrEmailAlreadyExists, http.StatusConflict},
	{usecase.ErrUsernameAlreadyExists, http.StatusConflict},
	{usecase.ErrCustomerEmailExists, http.StatusConflict},

	{usecase.ErrInvalidTimeRange, http.StatusBadRequest},
	{usecase.ErrInvalidPrice, http.StatusBadRequest},
	{usecase.ErrEmployeeNotInCompany, http.StatusBadRequest},
	{usecase.ErrServiceNotInCompany, http.StatusBadRequest},
	{usecase.ErrServiceNotAttached, http.StatusBadRequest},
	{usecase.ErrReferenceNotFound, http.StatusBadRequest},
	{usecase.ErrWrongPassword, http.StatusBadRequest},
	{usecase.ErrCannotDeleteSelf, http.StatusBadRequest},

	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrInvalidToken, http.StatusUnauthorized},
	{usecase.ErrTokenRevoked, http.StatusUnauthorized},

	{usecase.ErrForbidden, http.StatusForbidden},
}

// writeError responds with the status mapped to err, or 500 with fallback
// when err is not a known usecase error.
func writeError(w http.ResponseWriter, err error, fallback string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			response.Error(w, e.status, capitalize(e.err.Error()), nil)
			return
		}
	}
	response.InternalServerError(w, fallback)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// decodeAndValidate reads a JSON body into req. It writes the error response
// itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

// pathUUID parses the named route variable, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageQuery(r *http.Request) dto.PageQuery {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return dto.PageQuery{Page: page, Limit: limit}
}

func pageMeta(q dto.PageQuery, total int64) *response.Meta {
	p := q.ToPage()
	return response.NewMeta(p.Number, p.Size, total)
}

// queryUUID returns nil when the parameter is absent.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryTime accepts RFC 3339 timestamps and returns nil when absent.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// catalogQuery reads the company from the {companyId} route variable when
// nested under /companies, otherwise from ?company_id.
func catalogQuery(w http.ResponseWriter, r *http.Request) (dto.CatalogQuery, bool) {
	q := dto.CatalogQuery{
		PageQuery:  pageQuery(r),
		ActiveOnly: queryBool(r, "active"),
	}

	if raw, ok := mux.Vars(r)["companyId"]; ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid company ID")
			return q, false
		}
		q.CompanyID = &id
		return q, true
	}

	companyID, err := queryUUID(r, "company_id")
	if err != nil {
		response.BadRequest(w, "Invalid company_id")
		return q, false
	}
	q.CompanyID = companyID
	return q, true
}
