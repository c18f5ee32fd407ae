package usecase

import (
	"context"
	"errors"
	"time"

	"beauty-center-backend/internal/converter"
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/delivery/http/middleware"
	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/domain/repository"
	"beauty-center-backend/internal/event"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentNotActive = errors.New("appointment is no longer active")
	ErrEmployeeNotInCompany = errors.New("employee does not belong to the company")
	ErrServiceNotInCompany  = errors.New("service does not belong to the company")
	ErrServiceNotAttached   = errors.New("service is not attached to the appointment")
	ErrInvalidPrice         = errors.New("price must not be negative")
	ErrInvalidTransition    = entity.ErrInvalidTransition
)

// TransitionPolicy decides what happens when a status change is not allowed
// from the current status.
type TransitionPolicy string

const (
	// TransitionLenient keeps the status, persists the record and returns it.
	TransitionLenient TransitionPolicy = "lenient"
	// TransitionStrict fails with ErrInvalidTransition.
	TransitionStrict TransitionPolicy = "strict"
)

// EmployeeLocker serializes bookings per employee within the process.
type EmployeeLocker interface {
	Lock(companyID, employeeID uuid.UUID) (unlock func())
}

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetAll(ctx context.Context, query dto.AppointmentQuery) ([]dto.AppointmentResponse, int64, error)
	GetByDate(ctx context.Context, date time.Time, query dto.AppointmentQuery) ([]dto.AppointmentResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Confirm(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Start(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)

	AddService(ctx context.Context, id, serviceID uuid.UUID) (*dto.AppointmentResponse, error)
	RemoveService(ctx context.Context, id, serviceID uuid.UUID) (*dto.AppointmentResponse, error)

	SlotChecker
}

type appointmentUsecase struct {
	*slotChecker

	txManager       repository.TxManager
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	companyRepo     repository.CompanyRepository
	employeeRepo    repository.EmployeeRepository
	customerRepo    repository.CustomerRepository
	serviceRepo     repository.ServiceRepository
	locker          EmployeeLocker
	publisher       event.Publisher
	policy          TransitionPolicy
	now             func() time.Time
}

func NewAppointmentUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	companyRepo repository.CompanyRepository,
	employeeRepo repository.EmployeeRepository,
	customerRepo repository.CustomerRepository,
	serviceRepo repository.ServiceRepository,
	locker EmployeeLocker,
	publisher event.Publisher,
	policy TransitionPolicy,
) AppointmentUsecase {
	if policy != TransitionStrict {
		policy = TransitionLenient
	}

	return &appointmentUsecase{
		slotChecker:     newSlotChecker(txManager, log, appointmentRepo),
		txManager:       txManager,
		log:             log,
		appointmentRepo: appointmentRepo,
		companyRepo:     companyRepo,
		employeeRepo:    employeeRepo,
		customerRepo:    customerRepo,
		serviceRepo:     serviceRepo,
		locker:          locker,
		publisher:       publisher,
		policy:          policy,
		now:             time.Now,
	}
}

// Create books a new appointment in REQUESTED status.
//
// Flow:
// 1. Acquire the in-process lock for (company, employee)
// 2. Open a transaction and lock the employee row
// 3. Validate company, employee, customer and services
// 4. Reject when an active appointment overlaps [start, end)
// 5. Insert; the exclusion constraint is the last line of defense
// 6. After commit, publish AppointmentCreated
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	start := req.StartTime.UTC()
	if req.EndTime != nil && !req.EndTime.After(start) {
		return nil, ErrInvalidTimeRange
	}
	if req.TotalPrice != nil && req.TotalPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	unlock := u.locker.Lock(req.CompanyID, req.EmployeeID)
	defer unlock()

	var appointment *entity.Appointment
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		employee, err := u.employeeRepo.FindByIDForUpdate(tx, req.EmployeeID)
		if err != nil {
			u.log.Warnf("Failed to lock employee %s: %+v", req.EmployeeID, err)
			return err
		}
		if employee == nil {
			return ErrEmployeeNotFound
		}
		if employee.CompanyID != req.CompanyID {
			return ErrEmployeeNotInCompany
		}

		if err := u.ensureCompany(tx, req.CompanyID); err != nil {
			return err
		}

		customer, err := u.customerRepo.FindByID(tx, req.CustomerID)
		if err != nil {
			u.log.Warnf("Failed to find customer %s: %+v", req.CustomerID, err)
			return err
		}
		if customer == nil {
			return ErrCustomerNotFound
		}

		primary, err := u.companyService(tx, req.CompanyID, req.ServiceID)
		if err != nil {
			return err
		}

		additional, err := u.additionalServices(tx, req.CompanyID, req.ServiceID, req.AdditionalServiceIDs)
		if err != nil {
			return err
		}

		end := start.Add(primary.Duration())
		if req.EndTime != nil {
			end = req.EndTime.UTC()
		}

		total := primary.Price
		for _, s := range additional {
			total = total.Add(s.Price)
		}
		if req.TotalPrice != nil {
			total = *req.TotalPrice
		}

		slot := entity.Slot{
			CompanyID:  req.CompanyID,
			EmployeeID: req.EmployeeID,
			Start:      start,
			End:        end,
		}
		if err := u.ensureAvailable(tx, slot); err != nil {
			return err
		}

		appointment = &entity.Appointment{
			CompanyID:          req.CompanyID,
			EmployeeID:         req.EmployeeID,
			CustomerID:         req.CustomerID,
			ServiceID:          req.ServiceID,
			StartTime:          start,
			EndTime:            end,
			Status:             entity.AppointmentStatusRequested,
			Notes:              req.Notes,
			TotalPrice:         total,
			Service:            primary,
			AdditionalServices: additional,
		}

		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			if isSlotConflictError(err) {
				return ErrSlotConflict
			}
			if isForeignKeyError(err, "") {
				return ErrReferenceNotFound
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		if isSlotConflictError(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	u.publisher.PublishAppointmentCreated(ctx, event.AppointmentCreated{
		Appointment: *appointment,
		ActorID:     middleware.ActorFromContext(ctx),
		OccurredAt:  u.now().UTC(),
	})

	u.log.Infof("Appointment created: id=%s, employee=%s, start=%s", appointment.ID, appointment.EmployeeID, appointment.StartTime.Format(time.RFC3339))
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAll(ctx context.Context, query dto.AppointmentQuery) ([]dto.AppointmentResponse, int64, error) {
	filter := entity.AppointmentFilter{
		CompanyID:  query.CompanyID,
		EmployeeID: query.EmployeeID,
		CustomerID: query.CustomerID,
		From:       query.From,
		To:         query.To,
		Page:       query.ToPage(),
	}
	if query.Status != "" {
		status := entity.AppointmentStatus(query.Status)
		filter.Status = &status
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, 0, ErrInvalidTimeRange
	}

	appointments, total, err := u.appointmentRepo.FindAll(u.txManager.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

// GetByDate lists appointments overlapping the calendar day of date, in date's location.
func (u *appointmentUsecase) GetByDate(ctx context.Context, date time.Time, query dto.AppointmentQuery) ([]dto.AppointmentResponse, int64, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)
	query.From = &from
	query.To = &to

	return u.GetAll(ctx, query)
}

// Update reschedules, reassigns or edits an active appointment. Changing the
// employee or the window re-runs the conflict check, ignoring the
// appointment itself.
func (u *appointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.TotalPrice != nil && req.TotalPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	current, err := u.appointmentRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}

	employeeID := current.EmployeeID
	if req.EmployeeID != nil {
		employeeID = *req.EmployeeID
	}

	unlock := u.locker.Lock(current.CompanyID, employeeID)
	defer unlock()

	var appointment *entity.Appointment
	err = u.txManager.Do(ctx, func(tx *gorm.DB) error {
		a, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			u.log.Warnf("Failed to lock appointment %s: %+v", id, err)
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}
		if !a.IsActive() {
			return ErrAppointmentNotActive
		}

		employee, err := u.employeeRepo.FindByIDForUpdate(tx, employeeID)
		if err != nil {
			u.log.Warnf("Failed to lock employee %s: %+v", employeeID, err)
			return err
		}
		if employee == nil {
			return ErrEmployeeNotFound
		}
		if employee.CompanyID != a.CompanyID {
			return ErrEmployeeNotInCompany
		}

		start, end := a.StartTime, a.EndTime
		if req.StartTime != nil {
			// Moving the start keeps the length unless a new end is given.
			start = req.StartTime.UTC()
			end = start.Add(a.Duration())
		}
		if req.EndTime != nil {
			end = req.EndTime.UTC()
		}
		if !end.After(start) {
			return ErrInvalidTimeRange
		}

		rescheduled := employeeID != a.EmployeeID || !start.Equal(a.StartTime) || !end.Equal(a.EndTime)
		if rescheduled {
			slot := entity.Slot{
				CompanyID:  a.CompanyID,
				EmployeeID: employeeID,
				Start:      start,
				End:        end,
				ExcludeID:  &a.ID,
			}
			if err := u.ensureAvailable(tx, slot); err != nil {
				return err
			}
		}

		a.EmployeeID = employeeID
		a.StartTime = start
		a.EndTime = end
		if req.Notes != nil {
			a.Notes = *req.Notes
		}
		if req.TotalPrice != nil {
			a.TotalPrice = *req.TotalPrice
		}

		if err := u.appointmentRepo.Save(tx, a); err != nil {
			if isSlotConflictError(err) {
				return ErrSlotConflict
			}
			u.log.Warnf("Failed to update appointment %s: %+v", id, err)
			return err
		}

		appointment = a
		return nil
	})
	if err != nil {
		if isSlotConflictError(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	var companyID uuid.UUID
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		a, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			u.log.Warnf("Failed to lock appointment %s: %+v", id, err)
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}
		companyID = a.CompanyID

		if _, err := u.appointmentRepo.Delete(tx, id); err != nil {
			u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.publisher.PublishAppointmentDeleted(ctx, event.AppointmentDeleted{
		AppointmentID: id,
		CompanyID:     companyID,
		ActorID:       middleware.ActorFromContext(ctx),
		OccurredAt:    u.now().UTC(),
	})
	return nil
}

func (u *appointmentUsecase) Confirm(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.TriggerConfirm)
}

func (u *appointmentUsecase) Start(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.TriggerStart)
}

func (u *appointmentUsecase) Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.TriggerComplete)
}

func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.TriggerCancel)
}

func (u *appointmentUsecase) MarkNoShow(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.TriggerNoShow)
}

// transition applies trigger under a row lock. A disallowed transition is
// handled by the configured policy; only real changes emit an event.
func (u *appointmentUsecase) transition(ctx context.Context, id uuid.UUID, trigger entity.AppointmentTrigger) (*dto.AppointmentResponse, error) {
	var (
		appointment *entity.Appointment
		oldStatus   entity.AppointmentStatus
		changed     bool
	)

	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		a, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			u.log.Warnf("Failed to lock appointment %s: %+v", id, err)
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}

		oldStatus = a.Status
		if err := a.Apply(trigger); err != nil {
			if !errors.Is(err, entity.ErrInvalidTransition) || u.policy == TransitionStrict {
				return err
			}
			u.log.Debugf("Ignoring %s on appointment %s in status %s", trigger, id, a.Status)
		} else {
			changed = true
		}

		if err := u.appointmentRepo.Save(tx, a); err != nil {
			u.log.Warnf("Failed to save appointment %s: %+v", id, err)
			return err
		}

		appointment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		u.publisher.PublishAppointmentStatusChanged(ctx, event.AppointmentStatusChanged{
			Appointment: *appointment,
			OldStatus:   oldStatus,
			NewStatus:   appointment.Status,
			ActorID:     middleware.ActorFromContext(ctx),
			OccurredAt:  u.now().UTC(),
		})
	}

	return converter.AppointmentToResponse(appointment), nil
}

// AddService attaches an extra service and adds its price to the total.
// The additional services form a set: attaching one already present, or the
// primary service, changes nothing.
func (u *appointmentUsecase) AddService(ctx context.Context, id, serviceID uuid.UUID) (*dto.AppointmentResponse, error) {
	var appointment *entity.Appointment
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		a, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			u.log.Warnf("Failed to lock appointment %s: %+v", id, err)
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}

		svc, err := u.companyService(tx, a.CompanyID, serviceID)
		if err != nil {
			return err
		}

		appointment = a
		if svc.ID == a.ServiceID || !a.AddService(*svc) {
			return nil
		}
		a.TotalPrice = a.TotalPrice.Add(svc.Price)

		if err := u.appointmentRepo.Save(tx, a); err != nil {
			u.log.Warnf("Failed to add service to appointment %s: %+v", id, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// RemoveService detaches an extra service and subtracts its price, never
// taking the total below zero.
func (u *appointmentUsecase) RemoveService(ctx context.Context, id, serviceID uuid.UUID) (*dto.AppointmentResponse, error) {
	var appointment *entity.Appointment
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		a, err := u.appointmentRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			u.log.Warnf("Failed to lock appointment %s: %+v", id, err)
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}

		removed := a.RemoveService(serviceID)
		if removed == nil {
			return ErrServiceNotAttached
		}
		a.TotalPrice = decimal.Max(a.TotalPrice.Sub(removed.Price), decimal.Zero)

		if err := u.appointmentRepo.Save(tx, a); err != nil {
			u.log.Warnf("Failed to remove service from appointment %s: %+v", id, err)
			return err
		}

		appointment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ensureCompany(tx *gorm.DB, companyID uuid.UUID) error {
	company, err := u.companyRepo.FindByID(tx, companyID)
	if err != nil {
		u.log.Warnf("Failed to find company %s: %+v", companyID, err)
		return err
	}
	if company == nil {
		return ErrCompanyNotFound
	}
	return nil
}

func (u *appointmentUsecase) companyService(tx *gorm.DB, companyID, serviceID uuid.UUID) (*entity.Service, error) {
	svc, err := u.serviceRepo.FindByID(tx, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if svc.CompanyID != companyID {
		return nil, ErrServiceNotInCompany
	}
	return svc, nil
}

// additionalServices loads the extra services of a new booking, dropping
// duplicates and the primary service.
func (u *appointmentUsecase) additionalServices(tx *gorm.DB, companyID, primaryID uuid.UUID, ids []uuid.UUID) ([]entity.Service, error) {
	seen := map[uuid.UUID]bool{primaryID: true}
	wanted := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			wanted = append(wanted, id)
		}
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	services, err := u.serviceRepo.FindByIDs(tx, wanted)
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, err
	}
	if len(services) != len(wanted) {
		return nil, ErrServiceNotFound
	}
	for _, s := range services {
		if s.CompanyID != companyID {
			return nil, ErrServiceNotInCompany
		}
	}
	return services, nil
}
