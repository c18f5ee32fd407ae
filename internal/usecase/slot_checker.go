package usecase

import (
	"context"
	"errors"
	"time"

	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotConflict     = errors.New("time slot is not available")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)

// SlotChecker decides whether an employee is free for a time window.
type SlotChecker interface {
	// IsSlotAvailable is read-only. It returns false for an invalid window
	// (missing IDs, end not after start) instead of an error.
	IsSlotAvailable(ctx context.Context, companyID, employeeID uuid.UUID, start, end time.Time) (bool, error)
}

type slotChecker struct {
	txManager       repository.TxManager
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
}

func newSlotChecker(
	txManager repository.TxManager,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
) *slotChecker {
	return &slotChecker{
		txManager:       txManager,
		log:             log,
		appointmentRepo: appointmentRepo,
	}
}

func (c *slotChecker) IsSlotAvailable(ctx context.Context, companyID, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	slot := entity.Slot{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
	}
	if !slot.Valid() {
		return false, nil
	}

	return c.available(c.txManager.Conn(ctx), slot)
}

// ensureAvailable is the in-transaction form used before writes.
func (c *slotChecker) ensureAvailable(db *gorm.DB, slot entity.Slot) error {
	if !slot.Valid() {
		return ErrInvalidTimeRange
	}

	ok, err := c.available(db, slot)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotConflict
	}
	return nil
}

func (c *slotChecker) available(db *gorm.DB, slot entity.Slot) (bool, error) {
	overlapping, err := c.appointmentRepo.FindOverlapping(db, slot)
	if err != nil {
		c.log.Warnf("Failed to find overlapping appointments: %+v", err)
		return false, err
	}
	return len(overlapping) == 0, nil
}
