package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	usecase      AppointmentUsecase
	appointments *fakeAppointmentRepo
	services     *fakeServiceRepo
	publisher    *recordingPublisher

	company  uuid.UUID
	employee uuid.UUID
	customer uuid.UUID
	haircut  uuid.UUID // 60 minutes, 100.00
	styling  uuid.UUID // 30 minutes, 25.00
	foreign  uuid.UUID // service of another company
}

func newAppointmentFixture(t *testing.T, policy TransitionPolicy, locker EmployeeLocker) *appointmentFixture {
	t.Helper()

	companies := newFakeCompanyRepo()
	employees := newFakeEmployeeRepo()
	customers := newFakeCustomerRepo()
	services := newFakeServiceRepo()
	appointments := newFakeAppointmentRepo()

	c1 := &entity.Company{Name: "Glow Studio", IsActive: true}
	c2 := &entity.Company{Name: "Other Salon", IsActive: true}
	require.NoError(t, companies.Create(nil, c1))
	require.NoError(t, companies.Create(nil, c2))

	e1 := &entity.Employee{CompanyID: c1.ID, FirstName: "Ana", LastName: "Silva", IsActive: true}
	require.NoError(t, employees.Create(nil, e1))

	cust := &entity.Customer{FirstName: "Maria", LastName: "Lopez"}
	require.NoError(t, customers.Create(nil, cust))

	haircut := &entity.Service{CompanyID: c1.ID, Name: "Haircut", DurationMinutes: 60, Price: decimal.NewFromInt(100), IsActive: true}
	styling := &entity.Service{CompanyID: c1.ID, Name: "Styling", DurationMinutes: 30, Price: decimal.NewFromInt(25), IsActive: true}
	foreign := &entity.Service{CompanyID: c2.ID, Name: "Massage", DurationMinutes: 45, Price: decimal.NewFromInt(80), IsActive: true}
	for _, s := range []*entity.Service{haircut, styling, foreign} {
		require.NoError(t, services.Create(nil, s))
	}

	if locker == nil {
		locker = noopLocker{}
	}
	publisher := &recordingPublisher{}

	uc := NewAppointmentUsecase(
		fakeTxManager{}, quietLogger(), appointments, companies, employees, customers, services,
		locker, publisher, policy,
	)

	return &appointmentFixture{
		usecase:      uc,
		appointments: appointments,
		services:     services,
		publisher:    publisher,
		company:      c1.ID,
		employee:     e1.ID,
		customer:     cust.ID,
		haircut:      haircut.ID,
		styling:      styling.ID,
		foreign:      foreign.ID,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func (f *appointmentFixture) request(start, end time.Time) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		CompanyID:  f.company,
		EmployeeID: f.employee,
		CustomerID: f.customer,
		ServiceID:  f.haircut,
		StartTime:  start,
		EndTime:    &end,
	}
}

func (f *appointmentFixture) book(t *testing.T, start, end time.Time) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.usecase.Create(context.Background(), f.request(start, end))
	require.NoError(t, err)
	return resp
}

func TestCreateAppointmentRejectsOverlapAllowsAbutting(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)

	first := f.book(t, at(9, 0), at(10, 0))
	assert.Equal(t, string(entity.AppointmentStatusRequested), first.Status)

	_, err := f.usecase.Create(context.Background(), f.request(at(9, 30), at(10, 30)))
	assert.ErrorIs(t, err, ErrSlotConflict)

	second := f.book(t, at(10, 0), at(11, 0))
	assert.Equal(t, at(10, 0), second.StartTime)

	assert.Equal(t, 2, f.appointments.count())
	assert.Equal(t, 2, f.publisher.createdCount())
}

func TestCreateAppointmentDefaultsEndAndPrice(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)

	resp, err := f.usecase.Create(context.Background(), &dto.CreateAppointmentRequest{
		CompanyID:            f.company,
		EmployeeID:           f.employee,
		CustomerID:           f.customer,
		ServiceID:            f.haircut,
		AdditionalServiceIDs: []uuid.UUID{f.styling, f.styling, f.haircut},
		StartTime:            at(14, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, at(15, 0), resp.EndTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.True(t, decimal.NewFromInt(125).Equal(resp.TotalPrice), "got %s", resp.TotalPrice)
	require.Len(t, resp.AdditionalServices, 1)
	assert.Equal(t, f.styling, resp.AdditionalServices[0].ID)
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()

	t.Run("end before start", func(t *testing.T) {
		_, err := f.usecase.Create(ctx, f.request(at(10, 0), at(9, 0)))
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("empty window", func(t *testing.T) {
		_, err := f.usecase.Create(ctx, f.request(at(10, 0), at(10, 0)))
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("negative price", func(t *testing.T) {
		req := f.request(at(10, 0), at(11, 0))
		price := decimal.NewFromInt(-1)
		req.TotalPrice = &price
		_, err := f.usecase.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("unknown employee", func(t *testing.T) {
		req := f.request(at(10, 0), at(11, 0))
		req.EmployeeID = uuid.New()
		_, err := f.usecase.Create(ctx, req)
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})

	t.Run("employee of another company", func(t *testing.T) {
		req := f.request(at(10, 0), at(11, 0))
		req.CompanyID = uuid.New()
		_, err := f.usecase.Create(ctx, req)
		assert.ErrorIs(t, err, ErrEmployeeNotInCompany)
	})

	t.Run("unknown customer", func(t *testing.T) {
		req := f.request(at(10, 0), at(11, 0))
		req.CustomerID = uuid.New()
		_, err := f.usecase.Create(ctx, req)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("service of another company", func(t *testing.T) {
		req := f.request(at(10, 0), at(11, 0))
		req.ServiceID = f.foreign
		_, err := f.usecase.Create(ctx, req)
		assert.ErrorIs(t, err, ErrServiceNotInCompany)
	})

	t.Run("unknown additional service", func(t *testing.T) {
		req := f.request(at(10, 0), at(11, 0))
		req.AdditionalServiceIDs = []uuid.UUID{uuid.New()}
		_, err := f.usecase.Create(ctx, req)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	assert.Equal(t, 0, f.appointments.count())
	assert.Equal(t, 0, f.publisher.createdCount())
}

func TestIsSlotAvailable(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()
	booked := f.book(t, at(9, 0), at(10, 0))

	tests := []struct {
		name       string
		employee   uuid.UUID
		start, end time.Time
		want       bool
	}{
		{"overlapping", f.employee, at(9, 30), at(10, 30), false},
		{"contained", f.employee, at(9, 15), at(9, 45), false},
		{"ends when booking starts", f.employee, at(8, 0), at(9, 0), true},
		{"starts when booking ends", f.employee, at(10, 0), at(11, 0), true},
		{"other employee", uuid.New(), at(9, 0), at(10, 0), true},
		{"inverted window", f.employee, at(12, 0), at(11, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.usecase.IsSlotAvailable(ctx, f.company, tt.employee, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err := f.usecase.Cancel(ctx, booked.ID)
	require.NoError(t, err)

	ok, err := f.usecase.IsSlotAvailable(ctx, f.company, f.employee, at(9, 30), at(10, 30))
	require.NoError(t, err)
	assert.True(t, ok, "cancelled appointments must free their slot")
}

func TestConcurrentCreateOnlyOneWins(t *testing.T) {
	cases := map[string]func(*testing.T) *appointmentFixture{
		"in-process lock": func(t *testing.T) *appointmentFixture {
			locker := service.NewBookingLocker(quietLogger(), time.Minute, time.Minute)
			t.Cleanup(locker.Stop)
			return newAppointmentFixture(t, TransitionLenient, locker)
		},
		"exclusion constraint": func(t *testing.T) *appointmentFixture {
			f := newAppointmentFixture(t, TransitionLenient, noopLocker{})
			f.appointments.enforceExclusion = true
			return f
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			f := setup(t)
			const n = 20

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
				others    []error
			)
			startLine := make(chan struct{})
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-startLine
					_, err := f.usecase.Create(context.Background(), f.request(at(9, 0), at(10, 0)))
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, ErrSlotConflict):
						conflicts++
					default:
						others = append(others, err)
					}
				}()
			}
			close(startLine)
			wg.Wait()

			assert.Empty(t, others)
			assert.Equal(t, 1, successes)
			assert.Equal(t, n-1, conflicts)
			assert.Equal(t, 1, f.appointments.count())
			assert.Equal(t, 1, f.publisher.createdCount())
		})
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	f := newAppointmentFixture(t, TransitionStrict, nil)
	ctx := context.Background()
	booked := f.book(t, at(9, 0), at(10, 0))

	resp, err := f.usecase.Confirm(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), resp.Status)

	resp, err = f.usecase.Start(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusInProgress), resp.Status)

	resp, err = f.usecase.Complete(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCompleted), resp.Status)

	require.Len(t, f.publisher.statuses, 3)
	last := f.publisher.statuses[2]
	assert.Equal(t, entity.AppointmentStatusInProgress, last.OldStatus)
	assert.Equal(t, entity.AppointmentStatusCompleted, last.NewStatus)

	ok, err := f.usecase.IsSlotAvailable(ctx, f.company, f.employee, at(9, 0), at(10, 0))
	require.NoError(t, err)
	assert.True(t, ok, "completed appointments must free their slot")
}

func TestInvalidTransitionLenientPolicy(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()
	booked := f.book(t, at(9, 0), at(10, 0))

	resp, err := f.usecase.Complete(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusRequested), resp.Status)
	assert.Empty(t, f.publisher.statuses)

	stored, err := f.usecase.GetByID(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusRequested), stored.Status)
}

func TestInvalidTransitionStrictPolicy(t *testing.T) {
	f := newAppointmentFixture(t, TransitionStrict, nil)
	ctx := context.Background()
	booked := f.book(t, at(9, 0), at(10, 0))

	_, err := f.usecase.Complete(ctx, booked.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.usecase.Cancel(ctx, booked.ID)
	require.NoError(t, err)

	_, err = f.usecase.Confirm(ctx, booked.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "terminal statuses have no exits")

	require.Len(t, f.publisher.statuses, 1)
	assert.Equal(t, entity.AppointmentStatusCancelled, f.publisher.statuses[0].NewStatus)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)

	_, err := f.usecase.Confirm(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAppointmentServicesAdjustPrice(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()
	booked := f.book(t, at(9, 0), at(10, 0))
	require.True(t, decimal.NewFromInt(100).Equal(booked.TotalPrice))

	resp, err := f.usecase.AddService(ctx, booked.ID, f.styling)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(125).Equal(resp.TotalPrice), "got %s", resp.TotalPrice)

	resp, err = f.usecase.AddService(ctx, booked.ID, f.styling)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(125).Equal(resp.TotalPrice), "adding twice must not charge twice")
	assert.Len(t, resp.AdditionalServices, 1)

	resp, err = f.usecase.AddService(ctx, booked.ID, f.haircut)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(125).Equal(resp.TotalPrice), "primary service is already charged")

	_, err = f.usecase.AddService(ctx, booked.ID, f.foreign)
	assert.ErrorIs(t, err, ErrServiceNotInCompany)

	resp, err = f.usecase.RemoveService(ctx, booked.ID, f.styling)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.TotalPrice), "got %s", resp.TotalPrice)
	assert.Empty(t, resp.AdditionalServices)

	_, err = f.usecase.RemoveService(ctx, booked.ID, f.styling)
	assert.ErrorIs(t, err, ErrServiceNotAttached)
}

func TestRemoveServiceNeverGoesNegative(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()

	req := f.request(at(9, 0), at(10, 0))
	req.AdditionalServiceIDs = []uuid.UUID{f.styling}
	discounted := decimal.NewFromInt(10)
	req.TotalPrice = &discounted
	booked, err := f.usecase.Create(ctx, req)
	require.NoError(t, err)

	resp, err := f.usecase.RemoveService(ctx, booked.ID, f.styling)
	require.NoError(t, err)
	assert.True(t, resp.TotalPrice.IsZero(), "got %s", resp.TotalPrice)
}

func TestUpdateAppointmentReschedule(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()
	first := f.book(t, at(9, 0), at(10, 0))
	f.book(t, at(11, 0), at(12, 0))

	// Overlapping its own old window is fine.
	start := at(9, 30)
	resp, err := f.usecase.Update(ctx, first.ID, &dto.UpdateAppointmentRequest{StartTime: &start})
	require.NoError(t, err)
	assert.Equal(t, at(9, 30), resp.StartTime)
	assert.Equal(t, at(10, 30), resp.EndTime, "duration is kept when only the start moves")

	clash := at(10, 45)
	_, err = f.usecase.Update(ctx, first.ID, &dto.UpdateAppointmentRequest{StartTime: &clash})
	assert.ErrorIs(t, err, ErrSlotConflict)

	end := at(9, 0)
	_, err = f.usecase.Update(ctx, first.ID, &dto.UpdateAppointmentRequest{EndTime: &end})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = f.usecase.Cancel(ctx, first.ID)
	require.NoError(t, err)

	notes := "late"
	_, err = f.usecase.Update(ctx, first.ID, &dto.UpdateAppointmentRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrAppointmentNotActive)
}

func TestGetAppointmentsByDate(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()
	f.book(t, at(9, 0), at(10, 0))
	f.book(t, at(9, 0).AddDate(0, 0, 1), at(10, 0).AddDate(0, 0, 1))

	list, total, err := f.usecase.GetByDate(ctx, at(0, 0), dto.AppointmentQuery{CompanyID: &f.company})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, at(9, 0), list[0].StartTime)
}

func TestDeleteAppointmentPublishesEvent(t *testing.T) {
	f := newAppointmentFixture(t, TransitionLenient, nil)
	ctx := context.Background()
	booked := f.book(t, at(9, 0), at(10, 0))

	require.NoError(t, f.usecase.Delete(ctx, booked.ID))
	assert.ErrorIs(t, f.usecase.Delete(ctx, booked.ID), ErrAppointmentNotFound)

	require.Len(t, f.publisher.deleted, 1)
	assert.Equal(t, booked.ID, f.publisher.deleted[0].AppointmentID)
	assert.Equal(t, f.company, f.publisher.deleted[0].CompanyID)
}
