package repository

import (
	"beauty-center-backend/internal/domain/entity"
	domainRepo "beauty-center-backend/internal/domain/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if err := db.Omit(clause.Associations).Create(appointment).Error; err != nil {
		return err
	}
	return r.replaceServiceLinks(db, appointment)
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	found, err := first(db.Preload("AdditionalServices").Where("id = ?", id), &appointment)
	if err != nil || !found {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	query := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
	found, err := first(query, &appointment)
	if err != nil || !found {
		return nil, err
	}

	// Loaded separately so the row lock does not extend to the join table.
	if err := db.Model(&appointment).Association("AdditionalServices").Find(&appointment.AdditionalServices); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// FindOverlapping applies the half-open test existing.start < end AND existing.end > start.
func (r *appointmentRepository) FindOverlapping(db *gorm.DB, slot entity.Slot) ([]entity.Appointment, error) {
	cond := sq.And{
		sq.Eq{"company_id": slot.CompanyID.String()},
		sq.Eq{"employee_id": slot.EmployeeID.String()},
		sq.Eq{"status": activeStatuses()},
		sq.Lt{"start_time": slot.End},
		sq.Gt{"end_time": slot.Start},
	}
	if slot.ExcludeID != nil {
		cond = append(cond, sq.NotEq{"id": slot.ExcludeID.String()})
	}

	query, err := where(db.Model(&entity.Appointment{}), cond)
	if err != nil {
		return nil, err
	}

	var appointments []entity.Appointment
	if err := query.Order("start_time ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	cond := sq.And{}
	if filter.CompanyID != nil {
		cond = append(cond, sq.Eq{"company_id": filter.CompanyID.String()})
	}
	if filter.EmployeeID != nil {
		cond = append(cond, sq.Eq{"employee_id": filter.EmployeeID.String()})
	}
	if filter.CustomerID != nil {
		cond = append(cond, sq.Eq{"customer_id": filter.CustomerID.String()})
	}
	if filter.Status != nil {
		cond = append(cond, sq.Eq{"status": string(*filter.Status)})
	}
	if filter.To != nil {
		cond = append(cond, sq.Lt{"start_time": *filter.To})
	}
	if filter.From != nil {
		cond = append(cond, sq.Gt{"end_time": *filter.From})
	}

	query, err := where(db.Model(&entity.Appointment{}), cond)
	if err != nil {
		return nil, 0, err
	}

	var appointments []entity.Appointment
	total, err := paginate(query, filter.Page, "start_time ASC", &appointments, "AdditionalServices")
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) Save(db *gorm.DB, appointment *entity.Appointment) error {
	if err := db.Omit(clause.Associations).Save(appointment).Error; err != nil {
		return err
	}
	return r.replaceServiceLinks(db, appointment)
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	if err := db.Where("appointment_id = ?", id).Delete(&entity.AppointmentServiceLink{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) replaceServiceLinks(db *gorm.DB, appointment *entity.Appointment) error {
	err := db.Where("appointment_id = ?", appointment.ID).Delete(&entity.AppointmentServiceLink{}).Error
	if err != nil {
		return err
	}
	if len(appointment.AdditionalServices) == 0 {
		return nil
	}

	links := make([]entity.AppointmentServiceLink, 0, len(appointment.AdditionalServices))
	for _, s := range appointment.AdditionalServices {
		links = append(links, entity.AppointmentServiceLink{AppointmentID: appointment.ID, ServiceID: s.ID})
	}
	return db.Create(&links).Error
}

func activeStatuses() []string {
	statuses := make([]string, 0, len(entity.ActiveAppointmentStatuses))
	for _, s := range entity.ActiveAppointmentStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}
