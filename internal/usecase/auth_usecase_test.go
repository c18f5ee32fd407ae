package usecase

import (
	"context"
	"testing"
	"time"

	"beauty-center-backend/config"
	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	usecase   AuthUsecase
	users     *fakeUserRepo
	tokens    *fakeTokenRepo
	jwt       *jwt.JWTService
	publisher *recordingPublisher
}

func newAuthFixture() *authFixture {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	publisher := &recordingPublisher{}
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})

	return &authFixture{
		usecase:   NewAuthUsecase(fakeTxManager{}, quietLogger(), users, fakeRoleRepo{}, tokens, jwtService, publisher),
		users:     users,
		tokens:    tokens,
		jwt:       jwtService,
		publisher: publisher,
	}
}

func (f *authFixture) register(t *testing.T) *dto.UserResponse {
	t.Helper()
	user, err := f.usecase.Register(context.Background(), &dto.RegisterRequest{
		Username: "maria",
		Email:    "Maria@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)

	assert.Equal(t, "maria@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.Equal(t, []string{entity.RoleUser}, user.Roles)

	require.Len(t, f.publisher.users, 1)
	assert.Equal(t, user.ID, f.publisher.users[0].UserID)

	_, err := f.usecase.Register(context.Background(), &dto.RegisterRequest{
		Username: "maria", Email: "other@example.com", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)

	_, err = f.usecase.Register(context.Background(), &dto.RegisterRequest{
		Username: "maria2", Email: "maria@example.com", Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)
	ctx := context.Background()

	for _, login := range []string{"maria", "MARIA@example.com"} {
		tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Login: login, Password: "s3cret-pass"})
		require.NoError(t, err, login)
		assert.Equal(t, "Bearer", tokens.TokenType)
		assert.EqualValues(t, 900, tokens.ExpiresIn)

		claims, err := f.jwt.ValidateToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, []int{entity.RoleIDUser}, claims.RoleIDs)

		ok, err := f.tokens.AccessExists(ctx, user.ID, claims.TokenID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err := f.usecase.Login(ctx, &dto.LoginRequest{Login: "maria", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.usecase.Login(ctx, &dto.LoginRequest{Login: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)

	stored, err := f.users.FindByID(nil, user.ID)
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, f.users.Update(nil, stored))

	_, err = f.usecase.Login(context.Background(), &dto.LoginRequest{Login: "maria", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newAuthFixture()
	f.register(t)
	ctx := context.Background()

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Login: "maria", Password: "s3cret-pass"})
	require.NoError(t, err)

	rotated, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked, "a refresh token is single use")

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)
	ctx := context.Background()

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Login: "maria", Password: "s3cret-pass"})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.usecase.Logout(ctx, claims.TokenID, tokens.RefreshToken))

	ok, err := f.tokens.AccessExists(ctx, user.ID, claims.TokenID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
