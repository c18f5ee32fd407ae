package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/infrastructure/metrics"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAppointmentUsecase overrides only what a test needs; anything else
// panics on the nil embedded interface.
type stubAppointmentUsecase struct {
	usecase.AppointmentUsecase

	createErr  error
	confirmErr error
	available  bool
	gotDate    time.Time
	gotQuery   dto.AppointmentQuery
}

func (s *stubAppointmentUsecase) Create(_ context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.AppointmentResponse{ID: uuid.New(), EmployeeID: req.EmployeeID, Status: "REQUESTED"}, nil
}

func (s *stubAppointmentUsecase) Confirm(_ context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return &dto.AppointmentResponse{ID: id, Status: "CONFIRMED"}, nil
}

func (s *stubAppointmentUsecase) IsSlotAvailable(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time) (bool, error) {
	return s.available, nil
}

func (s *stubAppointmentUsecase) GetByDate(_ context.Context, date time.Time, query dto.AppointmentQuery) ([]dto.AppointmentResponse, int64, error) {
	s.gotDate = date
	s.gotQuery = query
	return []dto.AppointmentResponse{}, 0, nil
}

func newAppointmentRouter(uc usecase.AppointmentUsecase, m *metrics.Metrics) *mux.Router {
	h := NewAppointmentHandler(uc, validator.NewValidator(), m)
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/appointments/availability", h.Availability).Methods(http.MethodGet)
	r.HandleFunc("/appointments/by-date/{date}", h.GetByDate).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}/confirm", h.Confirm).Methods(http.MethodPost)
	return r
}

func createBody(t *testing.T) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"company_id":  uuid.New(),
		"employee_id": uuid.New(),
		"customer_id": uuid.New(),
		"service_id":  uuid.New(),
		"start_time":  "2025-03-10T09:00:00Z",
	})
	require.NoError(t, err)
	return string(body)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateAppointmentHandler(t *testing.T) {
	uc := &stubAppointmentUsecase{}
	router := newAppointmentRouter(uc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(createBody(t))))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)
}

func TestCreateAppointmentHandlerValidation(t *testing.T) {
	router := newAppointmentRouter(&stubAppointmentUsecase{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"notes":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, "Validation failed", body.Message)
	fields, ok := body.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "start_time")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAppointmentHandlerSlotConflict(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	router := newAppointmentRouter(&stubAppointmentUsecase{createErr: usecase.ErrSlotConflict}, m)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(createBody(t))))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Time slot is not available", decodeResponse(t, rec).Message)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.SlotConflicts))
}

func TestTransitionHandlerMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"allowed", nil, http.StatusOK},
		{"strict policy rejects", usecase.ErrInvalidTransition, http.StatusConflict},
		{"unknown appointment", usecase.ErrAppointmentNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAppointmentRouter(&stubAppointmentUsecase{confirmErr: tt.err}, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/"+uuid.NewString()+"/confirm", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	router := newAppointmentRouter(&stubAppointmentUsecase{}, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments/not-a-uuid/confirm", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityHandler(t *testing.T) {
	router := newAppointmentRouter(&stubAppointmentUsecase{available: true}, nil)
	base := "/appointments/availability?company_id=" + uuid.NewString() + "&employee_id=" + uuid.NewString()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"&start=2025-03-10T09:00:00Z&end=2025-03-10T10:00:00Z", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := decodeResponse(t, rec).Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["available"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"&start=2025-03-10T10:00:00Z&end=2025-03-10T09:00:00Z", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"&start=tomorrow&end=2025-03-10T09:00:00Z", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByDateHandler(t *testing.T) {
	uc := &stubAppointmentUsecase{}
	router := newAppointmentRouter(uc, nil)
	employeeID := uuid.New()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/appointments/by-date/2025-03-10?tz=Europe/Lisbon&employee_id="+employeeID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "2025-03-10", uc.gotDate.Format(time.DateOnly))
	assert.Equal(t, "Europe/Lisbon", uc.gotDate.Location().String())
	require.NotNil(t, uc.gotQuery.EmployeeID)
	assert.Equal(t, employeeID, *uc.gotQuery.EmployeeID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/by-date/10-03-2025", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/by-date/2025-03-10?status=DONE", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
