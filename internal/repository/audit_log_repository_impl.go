package repository

import (
	"beauty-center-backend/internal/domain/entity"
	domainRepo "beauty-center-backend/internal/domain/repository"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

func (r *auditLogRepository) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	cond := sq.And{}
	if filter.Action != "" {
		cond = append(cond, sq.Eq{"action": filter.Action})
	}
	if filter.UserID != nil {
		cond = append(cond, sq.Eq{"user_id": filter.UserID.String()})
	}

	query, err := where(db.Model(&entity.AuditLog{}), cond)
	if err != nil {
		return nil, 0, err
	}

	var logs []entity.AuditLog
	total, err := paginate(query, filter.Page, "created_at DESC", &logs)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	found, err := first(db.Where("id = ?", id), &log)
	if err != nil || !found {
		return nil, err
	}
	return &log, nil
}
