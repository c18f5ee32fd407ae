package event

import (
	"context"

	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/domain/repository"
	"beauty-center-backend/internal/service"
)

// AuditListener records appointment and account events in the audit trail.
// It writes outside the originating transaction, after commit.
type AuditListener struct {
	txManager    repository.TxManager
	auditService service.AuditService
}

func NewAuditListener(txManager repository.TxManager, auditService service.AuditService) *AuditListener {
	return &AuditListener{
		txManager:    txManager,
		auditService: auditService,
	}
}

func (l *AuditListener) Name() string { return "audit" }

func (l *AuditListener) OnAppointmentCreated(ctx context.Context, e AppointmentCreated) error {
	return l.auditService.LogCreate(ctx, l.txManager.Conn(ctx), e.ActorID,
		entity.AuditActionAppointmentCreate, "appointment", e.Appointment.ID.String(), e.Appointment)
}

func (l *AuditListener) OnAppointmentStatusChanged(ctx context.Context, e AppointmentStatusChanged) error {
	return l.auditService.LogUpdate(ctx, l.txManager.Conn(ctx), e.ActorID,
		entity.AuditActionAppointmentStatus, "appointment", e.Appointment.ID.String(),
		map[string]interface{}{"status": e.OldStatus},
		map[string]interface{}{"status": e.NewStatus},
	)
}

func (l *AuditListener) OnAppointmentDeleted(ctx context.Context, e AppointmentDeleted) error {
	return l.auditService.LogDelete(ctx, l.txManager.Conn(ctx), e.ActorID,
		entity.AuditActionAppointmentDelete, "appointment", e.AppointmentID.String(), nil)
}

func (l *AuditListener) OnUserRegistered(ctx context.Context, e UserRegistered) error {
	return l.auditService.LogCreate(ctx, l.txManager.Conn(ctx), e.ActorID,
		entity.AuditActionUserRegister, "user", e.UserID.String(),
		map[string]interface{}{"username": e.Username, "email": e.Email})
}

func (l *AuditListener) OnUserDeleted(ctx context.Context, e UserDeleted) error {
	return l.auditService.LogDelete(ctx, l.txManager.Conn(ctx), e.ActorID,
		entity.AuditActionUserDelete, "user", e.UserID.String(), nil)
}
