package usecase

import (
	"context"
	"errors"
	"strings"

	"beauty-center-backend/internal/converter"
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/internal/domain/repository"
	"beauty-center-backend/internal/event"
	"beauty-center-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid username, email or password")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenRevoked          = errors.New("token has been revoked")
	ErrUserNotFound          = errors.New("user not found")
	ErrRoleNotFound          = errors.New("role not found")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	txManager  repository.TxManager
	log        *logrus.Logger
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	tokenRepo  repository.TokenRepository
	jwtService *jwt.JWTService
	publisher  event.Publisher
}

func NewAuthUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokenRepo repository.TokenRepository,
	jwtService *jwt.JWTService,
	publisher event.Publisher,
) AuthUsecase {
	return &authUsecase{
		txManager:  txManager,
		log:        log,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		publisher:  publisher,
	}
}

// Register creates an active account with the USER role.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}

	err = u.txManager.Do(ctx, func(tx *gorm.DB) error {
		roles, err := loadRoles(tx, u.log, u.roleRepo, []int{entity.RoleIDUser})
		if err != nil {
			return err
		}
		user.Roles = roles

		return createUser(tx, u.log, u.userRepo, user)
	})
	if err != nil {
		return nil, err
	}

	u.publisher.PublishUserRegistered(ctx, event.UserRegistered{
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		ActorID:    &user.ID,
		OccurredAt: user.CreatedAt,
	})

	return converter.UserToResponse(user), nil
}

// Login accepts a username or an email. Unknown, inactive and wrong-password
// accounts all get the same error.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	db := u.txManager.Conn(ctx)
	login := strings.TrimSpace(req.Login)

	var (
		user *entity.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = u.userRepo.FindByEmail(db, strings.ToLower(login))
	} else {
		user, err = u.userRepo.FindByUsername(db, login)
	}
	if err != nil {
		u.log.Warnf("Failed to find user %q: %+v", login, err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshToken string) error {
	if err := u.tokenRepo.RevokeAccess(ctx, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		// The access token is already gone; a bad refresh token just expires.
		return nil
	}

	if err := u.tokenRepo.RevokeRefresh(ctx, claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return err
	}
	return nil
}

// RefreshToken rotates the pair: the presented refresh token is consumed and
// cannot be used again.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	existed, err := u.tokenRepo.ConsumeRefresh(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to consume refresh token: %+v", err)
		return nil, err
	}
	if !existed {
		return nil, ErrTokenRevoked
	}

	// Reload so role changes and deactivation take effect on refresh.
	user, err := u.userRepo.FindByID(u.txManager.Conn(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", claims.UserID, err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.txManager.Conn(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	subject := jwt.Subject{UserID: user.ID, Email: user.Email, RoleIDs: user.RoleIDs()}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(subject)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(subject)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.StoreAccess(ctx, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenRepo.StoreRefresh(ctx, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func loadRoles(tx *gorm.DB, log *logrus.Logger, roleRepo repository.RoleRepository, ids []int) ([]entity.Role, error) {
	roles := make([]entity.Role, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		role, err := roleRepo.FindByID(tx, id)
		if err != nil {
			log.Warnf("Failed to find role %d: %+v", id, err)
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func createUser(tx *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository, user *entity.User) error {
	if err := userRepo.Create(tx, user); err != nil {
		switch {
		case isDuplicateKeyError(err, "username"):
			return ErrUsernameAlreadyExists
		case isDuplicateKeyError(err, "email"):
			return ErrEmailAlreadyExists
		case isForeignKeyError(err, "role"):
			return ErrRoleNotFound
		case isForeignKeyError(err, "compan"):
			return ErrCompanyNotFound
		}
		log.Warnf("Failed to create user: %+v", err)
		return err
	}
	return nil
}
