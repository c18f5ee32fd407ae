package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"beauty-center-backend/internal/converter"
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/delivery/http/middleware"
	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/domain/repository"
	"beauty-center-backend/internal/event"
	"beauty-center-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrForbidden        = errors.New("not allowed to perform this action")
	ErrWrongPassword    = errors.New("old password is incorrect")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

type UserUsecase interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetAll(ctx context.Context, query dto.UserQuery) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *dto.ChangePasswordRequest) error
	AddRole(ctx context.Context, id uuid.UUID, roleID int) (*dto.UserResponse, error)
	RemoveRole(ctx context.Context, id uuid.UUID, roleID int) (*dto.UserResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	tokenRepo    repository.TokenRepository
	auditService service.AuditService
	publisher    event.Publisher
}

func NewUserUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokenRepo repository.TokenRepository,
	auditService service.AuditService,
	publisher event.Publisher,
) UserUsecase {
	return &userUsecase{
		txManager:    txManager,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		tokenRepo:    tokenRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

// Create adds an account on behalf of an administrator. Without explicit
// roles the account gets USER.
func (u *userUsecase) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	roleIDs := req.RoleIDs
	if len(roleIDs) == 0 {
		roleIDs = []int{entity.RoleIDUser}
	}

	user := &entity.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		CompanyID: req.CompanyID,
		IsActive:  true,
	}

	err = u.txManager.Do(ctx, func(tx *gorm.DB) error {
		roles, err := loadRoles(tx, u.log, u.roleRepo, roleIDs)
		if err != nil {
			return err
		}
		user.Roles = roles

		if err := createUser(tx, u.log, u.userRepo, user); err != nil {
			return err
		}

		return u.auditService.LogCreate(ctx, tx, middleware.ActorFromContext(ctx),
			entity.AuditActionUserCreate, "user", user.ID.String(), converter.UserToResponse(user))
	})
	if err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetAll(ctx context.Context, query dto.UserQuery) ([]dto.UserResponse, int64, error) {
	users, total, err := u.userRepo.FindAll(u.txManager.Conn(ctx), entity.UserFilter{
		RoleID:    query.RoleID,
		CompanyID: query.CompanyID,
		Page:      query.ToPage(),
	})
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, 0, err
	}

	return converter.UsersToResponses(users), total, nil
}

func (u *userUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return u.modify(ctx, id, func(user *entity.User) {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Phone = req.Phone
		user.CompanyID = req.CompanyID
		user.IsActive = boolOr(req.IsActive, user.IsActive)
	})
}

func (u *userUsecase) SetActive(ctx context.Context, id uuid.UUID, active bool) (*dto.UserResponse, error) {
	return u.modify(ctx, id, func(user *entity.User) {
		user.IsActive = active
	})
}

// modify applies changes under a transaction and records the before/after
// snapshot. Deactivated accounts lose their tokens.
func (u *userUsecase) modify(ctx context.Context, id uuid.UUID, apply func(*entity.User)) (*dto.UserResponse, error) {
	var user *entity.User
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		found, err := u.userRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", id, err)
			return err
		}
		if found == nil {
			return ErrUserNotFound
		}

		before := converter.UserToResponse(found)
		apply(found)

		if err := u.userRepo.Update(tx, found); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isForeignKeyError(err, "compan") {
				return ErrCompanyNotFound
			}
			u.log.Warnf("Failed to update user %s: %+v", id, err)
			return err
		}

		user = found
		return u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx),
			entity.AuditActionUserUpdate, "user", id.String(), before, converter.UserToResponse(found))
	})
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		u.revokeTokens(ctx, id)
	}

	return converter.UserToResponse(user), nil
}

// ChangePassword lets users change their own password after proving the old
// one. Administrators may reset anyone else's without it.
func (u *userUsecase) ChangePassword(ctx context.Context, id uuid.UUID, req *dto.ChangePasswordRequest) error {
	actorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrForbidden
	}
	self := actorID == id
	if !self && !middleware.HasRole(ctx, entity.RoleIDAdmin) {
		return ErrForbidden
	}

	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		user, err := u.userRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", id, err)
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if self {
			if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
				return ErrWrongPassword
			}
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return err
		}
		user.Password = string(hashedPassword)

		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update password for user %s: %+v", id, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, &actorID,
			entity.AuditActionUserUpdate, "user", id.String(), nil, map[string]interface{}{"password_changed": true})
	})
	if err != nil {
		return err
	}

	u.revokeTokens(ctx, id)
	return nil
}

func (u *userUsecase) AddRole(ctx context.Context, id uuid.UUID, roleID int) (*dto.UserResponse, error) {
	return u.changeRole(ctx, id, roleID, u.userRepo.AddRole)
}

func (u *userUsecase) RemoveRole(ctx context.Context, id uuid.UUID, roleID int) (*dto.UserResponse, error) {
	return u.changeRole(ctx, id, roleID, u.userRepo.RemoveRole)
}

func (u *userUsecase) changeRole(ctx context.Context, id uuid.UUID, roleID int, change func(*gorm.DB, uuid.UUID, *entity.Role) error) (*dto.UserResponse, error) {
	var user *entity.User
	err := u.txManager.Do(ctx, func(tx *gorm.DB) error {
		found, err := u.userRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", id, err)
			return err
		}
		if found == nil {
			return ErrUserNotFound
		}

		role, err := u.roleRepo.FindByID(tx, roleID)
		if err != nil {
			u.log.Warnf("Failed to find role %d: %+v", roleID, err)
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}

		before := found.RoleIDs()
		if err := change(tx, id, role); err != nil {
			u.log.Warnf("Failed to change role %d of user %s: %+v", roleID, id, err)
			return err
		}

		user, err = u.userRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to reload user %s: %+v", id, err)
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		return u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx),
			entity.AuditActionUserUpdate, "user", id.String(),
			map[string]interface{}{"role_ids": before},
			map[string]interface{}{"role_ids": user.RoleIDs()},
		)
	})
	if err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	actor := middleware.ActorFromContext(ctx)
	if actor != nil && *actor == id {
		return ErrCannotDeleteSelf
	}

	rows, err := u.userRepo.Delete(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to delete user %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	u.revokeTokens(ctx, id)
	u.publisher.PublishUserDeleted(ctx, event.UserDeleted{
		UserID:     id,
		ActorID:    actor,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// revokeTokens is best effort: the account change is already committed.
func (u *userUsecase) revokeTokens(ctx context.Context, id uuid.UUID) {
	if err := u.tokenRepo.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens of user %s: %+v", id, err)
	}
}
