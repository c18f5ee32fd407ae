package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/infrastructure/metrics"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	slotConflicts      prometheus.Counter
}

// NewAppointmentHandler builds the handler. m may be nil when metrics are
// disabled.
func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, m *metrics.Metrics) *AppointmentHandler {
	h := &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
	if m != nil {
		h.slotConflicts = m.SlotConflicts
	}
	return h
}

// Create handles appointment booking
// @Summary Book an appointment
// @Description Book an employee for a customer. end_time defaults to the service duration and total_price to the sum of the service prices.
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// GetAll handles listing appointments
// @Summary List appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param company_id query string false "Company ID"
// @Param employee_id query string false "Employee ID"
// @Param customer_id query string false "Customer ID"
// @Param status query string false "Status"
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query, ok := h.appointmentQuery(w, r)
	if !ok {
		return
	}

	appointments, total, err := h.appointmentUsecase.GetAll(r.Context(), query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", appointments, pageMeta(query.PageQuery, total))
}

// GetByDate handles listing the appointments of one calendar day
// @Summary List appointments of a day
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param tz query string false "IANA time zone of the day, UTC by default"
// @Success 200 {object} response.Response
// @Router /appointments/by-date/{date} [get]
func (h *AppointmentHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			response.BadRequest(w, "Invalid time zone")
			return
		}
	}

	date, err := time.ParseInLocation(time.DateOnly, mux.Vars(r)["date"], loc)
	if err != nil {
		response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
		return
	}

	query, ok := h.appointmentQuery(w, r)
	if !ok {
		return
	}

	appointments, total, err := h.appointmentUsecase.GetByDate(r.Context(), date, query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", appointments, pageMeta(query.PageQuery, total))
}

// Availability handles slot checks
// @Summary Check whether an employee is free
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param company_id query string true "Company ID"
// @Param employee_id query string true "Employee ID"
// @Param start query string true "Slot start (RFC 3339)"
// @Param end query string true "Slot end (RFC 3339)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /appointments/availability [get]
func (h *AppointmentHandler) Availability(w http.ResponseWriter, r *http.Request) {
	var query dto.AvailabilityQuery
	var errs []string

	if id, err := queryUUID(r, "company_id"); err != nil {
		errs = append(errs, "company_id")
	} else if id != nil {
		query.CompanyID = *id
	}
	if id, err := queryUUID(r, "employee_id"); err != nil {
		errs = append(errs, "employee_id")
	} else if id != nil {
		query.EmployeeID = *id
	}
	if t, err := queryTime(r, "start"); err != nil {
		errs = append(errs, "start")
	} else if t != nil {
		query.Start = *t
	}
	if t, err := queryTime(r, "end"); err != nil {
		errs = append(errs, "end")
	} else if t != nil {
		query.End = *t
	}
	if len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters", errs)
		return
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	available, err := h.appointmentUsecase.IsSlotAvailable(r.Context(), query.CompanyID, query.EmployeeID, query.Start, query.End)
	if err != nil {
		response.InternalServerError(w, "Failed to check availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability checked successfully", dto.AvailabilityResponse{
		CompanyID:  query.CompanyID,
		EmployeeID: query.EmployeeID,
		Start:      query.Start,
		End:        query.End,
		Available:  available,
	})
}

func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// Update handles rescheduling and edits of an active appointment
// @Summary Update an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentRequest true "Update Appointment Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.appointmentUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Confirm, "Appointment confirmed")
}

func (h *AppointmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Start, "Appointment started")
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Complete, "Appointment completed")
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Cancel, "Appointment cancelled")
}

func (h *AppointmentHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.MarkNoShow, "Appointment marked as no-show")
}

// transition runs a status change. Under the lenient policy a disallowed
// change still answers 200 with the unchanged appointment.
func (h *AppointmentHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error),
	message string,
) {
	id, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := apply(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, message, appointment)
}

func (h *AppointmentHandler) AddService(w http.ResponseWriter, r *http.Request) {
	h.changeService(w, r, h.appointmentUsecase.AddService, "Service added to appointment")
}

func (h *AppointmentHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	h.changeService(w, r, h.appointmentUsecase.RemoveService, "Service removed from appointment")
}

func (h *AppointmentHandler) changeService(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, id, serviceID uuid.UUID) (*dto.AppointmentResponse, error),
	message string,
) {
	id, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}
	serviceID, ok := pathUUID(w, r, "serviceId", "service")
	if !ok {
		return
	}

	appointment, err := change(r.Context(), id, serviceID)
	if err != nil {
		writeError(w, err, "Failed to update appointment services")
		return
	}

	response.Success(w, http.StatusOK, message, appointment)
}

// writeError counts lost booking races before the generic mapping.
func (h *AppointmentHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrSlotConflict) && h.slotConflicts != nil {
		h.slotConflicts.Inc()
	}
	writeError(w, err, fallback)
}

func (h *AppointmentHandler) appointmentQuery(w http.ResponseWriter, r *http.Request) (dto.AppointmentQuery, bool) {
	query := dto.AppointmentQuery{
		PageQuery: pageQuery(r),
		Status:    r.URL.Query().Get("status"),
	}

	var err error
	for name, dst := range map[string]**uuid.UUID{
		"company_id":  &query.CompanyID,
		"employee_id": &query.EmployeeID,
		"customer_id": &query.CustomerID,
	} {
		if *dst, err = queryUUID(r, name); err != nil {
			response.BadRequest(w, "Invalid "+name)
			return query, false
		}
	}
	if query.From, err = queryTime(r, "from"); err != nil {
		response.BadRequest(w, "Invalid from, use RFC 3339")
		return query, false
	}
	if query.To, err = queryTime(r, "to"); err != nil {
		response.BadRequest(w, "Invalid to, use RFC 3339")
		return query, false
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return query, false
	}
	return query, true
}
