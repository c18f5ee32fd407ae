package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/event"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeTxManager runs fn without a real transaction; repositories ignore the handle.
type fakeTxManager struct{}

func (fakeTxManager) Conn(context.Context) *gorm.DB { return nil }

func (fakeTxManager) Do(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type noopLocker struct{}

func (noopLocker) Lock(uuid.UUID, uuid.UUID) func() { return func() {} }

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu       sync.Mutex
	created  []event.AppointmentCreated
	statuses []event.AppointmentStatusChanged
	deleted  []event.AppointmentDeleted
	users    []event.UserRegistered
	removed  []event.UserDeleted
}

func (p *recordingPublisher) PublishAppointmentCreated(_ context.Context, e event.AppointmentCreated) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, e)
}

func (p *recordingPublisher) PublishAppointmentStatusChanged(_ context.Context, e event.AppointmentStatusChanged) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, e)
}

func (p *recordingPublisher) PublishAppointmentDeleted(_ context.Context, e event.AppointmentDeleted) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, e)
}

func (p *recordingPublisher) PublishUserRegistered(_ context.Context, e event.UserRegistered) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, e)
}

func (p *recordingPublisher) PublishUserDeleted(_ context.Context, e event.UserDeleted) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, e)
}

func (p *recordingPublisher) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.created)
}

// --- companies, employees, customers, services ---

type fakeCompanyRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{rows: map[uuid.UUID]entity.Company{}}
}

func (r *fakeCompanyRepo) Create(_ *gorm.DB, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeCompanyRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCompanyRepo) FindAll(_ *gorm.DB, filter entity.CompanyFilter) ([]entity.Company, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Company
	for _, c := range r.rows {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCompanyRepo) Update(_ *gorm.DB, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeCompanyRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

type fakeEmployeeRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{rows: map[uuid.UUID]entity.Employee{}}
}

func (r *fakeEmployeeRepo) Create(_ *gorm.DB, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.rows[e.ID] = *e
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *fakeEmployeeRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Employee, error) {
	return r.FindByID(db, id)
}

func (r *fakeEmployeeRepo) FindAll(_ *gorm.DB, filter entity.CatalogFilter) ([]entity.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Employee
	for _, e := range r.rows {
		if filter.CompanyID != nil && e.CompanyID != *filter.CompanyID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEmployeeRepo) Update(_ *gorm.DB, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[e.ID] = *e
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

type fakeCustomerRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{rows: map[uuid.UUID]entity.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ *gorm.DB, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if c.Email != "" && strings.EqualFold(existing.Email, c.Email) {
			return &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "uq_customers_email"}
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCustomerRepo) FindAll(_ *gorm.DB, _ entity.CustomerFilter) ([]entity.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Customer
	for _, c := range r.rows {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) Update(_ *gorm.DB, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *fakeCustomerRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

type fakeServiceRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{rows: map[uuid.UUID]entity.Service{}}
}

func (r *fakeServiceRepo) Create(_ *gorm.DB, s *entity.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *fakeServiceRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeServiceRepo) FindByIDs(_ *gorm.DB, ids []uuid.UUID) ([]entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Service
	for _, id := range ids {
		if s, ok := r.rows[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) FindAll(_ *gorm.DB, _ entity.CatalogFilter) ([]entity.Service, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Service
	for _, s := range r.rows {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeServiceRepo) Update(_ *gorm.DB, s *entity.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.ID] = *s
	return nil
}

func (r *fakeServiceRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

// --- appointments ---

// fakeAppointmentRepo optionally enforces the overlap exclusion constraint
// atomically on insert, like the database does.
type fakeAppointmentRepo struct {
	mu               sync.Mutex
	rows             map[uuid.UUID]entity.Appointment
	enforceExclusion bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{rows: map[uuid.UUID]entity.Appointment{}}
}

func cloneAppointment(a entity.Appointment) entity.Appointment {
	a.AdditionalServices = append([]entity.Service(nil), a.AdditionalServices...)
	return a
}

func (r *fakeAppointmentRepo) Create(_ *gorm.DB, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enforceExclusion && len(r.overlapping(entity.Slot{
		CompanyID: a.CompanyID, EmployeeID: a.EmployeeID, Start: a.StartTime, End: a.EndTime,
	})) > 0 {
		return &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: "excl_appointments_employee_overlap"}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	r.rows[a.ID] = cloneAppointment(*a)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	a = cloneAppointment(a)
	return &a, nil
}

func (r *fakeAppointmentRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return r.FindByID(db, id)
}

func (r *fakeAppointmentRepo) FindOverlapping(_ *gorm.DB, slot entity.Slot) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapping(slot), nil
}

func (r *fakeAppointmentRepo) overlapping(slot entity.Slot) []entity.Appointment {
	var out []entity.Appointment
	for _, a := range r.rows {
		if a.CompanyID != slot.CompanyID || a.EmployeeID != slot.EmployeeID || !a.IsActive() {
			continue
		}
		if slot.ExcludeID != nil && a.ID == *slot.ExcludeID {
			continue
		}
		if a.Overlaps(slot.Start, slot.End) {
			out = append(out, cloneAppointment(a))
		}
	}
	return out
}

func (r *fakeAppointmentRepo) FindAll(_ *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.rows {
		if filter.CompanyID != nil && a.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.From != nil && !a.EndTime.After(*filter.From) {
			continue
		}
		if filter.To != nil && !a.StartTime.Before(*filter.To) {
			continue
		}
		out = append(out, cloneAppointment(a))
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) Save(_ *gorm.DB, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.UpdatedAt = time.Now().UTC()
	r.rows[a.ID] = cloneAppointment(*a)
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// --- users, roles, tokens, audit ---

type fakeUserRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[uuid.UUID]entity.User{}}
}

func (r *fakeUserRepo) Create(_ *gorm.DB, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Username == u.Username {
			return &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "uq_users_username"}
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "uq_users_email"}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.rows[u.ID] = cloneUser(*u)
	return nil
}

func cloneUser(u entity.User) entity.User {
	u.Roles = append([]entity.Role(nil), u.Roles...)
	return u
}

func (r *fakeUserRepo) find(match func(entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if match(u) {
			c := cloneUser(u)
			return &c
		}
	}
	return nil
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *fakeUserRepo) FindByUsername(_ *gorm.DB, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *fakeUserRepo) FindAll(_ *gorm.DB, filter entity.UserFilter) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.rows {
		if filter.RoleID != nil && !u.HasRole(*filter.RoleID) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(_ *gorm.DB, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.ID] = cloneUser(*u)
	return nil
}

func (r *fakeUserRepo) AddRole(_ *gorm.DB, userID uuid.UUID, role *entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.rows[userID]
	if !u.HasRole(role.ID) {
		u.Roles = append(u.Roles, *role)
	}
	r.rows[userID] = u
	return nil
}

func (r *fakeUserRepo) RemoveRole(_ *gorm.DB, userID uuid.UUID, role *entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.rows[userID]
	kept := u.Roles[:0:0]
	for _, existing := range u.Roles {
		if existing.ID != role.ID {
			kept = append(kept, existing)
		}
	}
	u.Roles = kept
	r.rows[userID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

type fakeRoleRepo struct{}

func (fakeRoleRepo) FindByID(_ *gorm.DB, id int) (*entity.Role, error) {
	name := entity.RoleName(id)
	if name == "" {
		return nil, nil
	}
	return &entity.Role{ID: id, RoleName: name}, nil
}

func (fakeRoleRepo) FindByName(_ *gorm.DB, name string) (*entity.Role, error) {
	for id := entity.RoleIDUser; id <= entity.RoleIDAdmin; id++ {
		if entity.RoleName(id) == name {
			return &entity.Role{ID: id, RoleName: name}, nil
		}
	}
	return nil, nil
}

type fakeTokenRepo struct {
	mu      sync.Mutex
	access  map[string]uuid.UUID
	refresh map[string]uuid.UUID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{access: map[string]uuid.UUID{}, refresh: map[string]uuid.UUID{}}
}

func (r *fakeTokenRepo) StoreAccess(_ context.Context, userID uuid.UUID, tokenID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.access[tokenID] = userID
	return nil
}

func (r *fakeTokenRepo) StoreRefresh(_ context.Context, userID uuid.UUID, tokenID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh[tokenID] = userID
	return nil
}

func (r *fakeTokenRepo) AccessExists(_ context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.access[tokenID]
	return ok && owner == userID, nil
}

func (r *fakeTokenRepo) ConsumeRefresh(_ context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.refresh[tokenID]
	if !ok || owner != userID {
		return false, nil
	}
	delete(r.refresh, tokenID)
	return true, nil
}

func (r *fakeTokenRepo) RevokeAccess(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.access, tokenID)
	return nil
}

func (r *fakeTokenRepo) RevokeRefresh(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refresh, tokenID)
	return nil
}

func (r *fakeTokenRepo) RevokeAll(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, owner := range r.access {
		if owner == userID {
			delete(r.access, id)
		}
	}
	for id, owner := range r.refresh {
		if owner == userID {
			delete(r.refresh, id)
		}
	}
	return nil
}

type fakeAuditLogRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (r *fakeAuditLogRepo) Create(_ *gorm.DB, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	log.CreatedAt = time.Now().UTC()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditLogRepo) FindAll(_ *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AuditLog
	for _, l := range r.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditLogRepo) FindByID(_ *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeAuditLogRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, l.Action)
	}
	return out
}
