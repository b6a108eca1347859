package service

import (
	"context"
	"testing"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/config"
	"github.com/gsagg03-cmyk/erpx/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (AuthService, *stubUserRepo, *config.Config) {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1, JWTRefreshHours: 2}
	users := newStubUserRepo()
	svc := NewAuthServiceWithCost(users, newStubBusinessRepo(), authz.DefaultPolicy(), cfg, bcrypt.MinCost)
	return svc, users, cfg
}

func parseClaims(t *testing.T, token, secret string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
	require.NoError(t, err)
	return claims
}

func TestRegisterOwner_ThenLogin(t *testing.T) {
	svc, _, cfg := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.RegisterOwner(ctx, dto.RegisterOwnerRequest{
		BusinessName: "Rahim Traders", Name: "Rahim", Username: "rahim", Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner", reg.User.Role)
	assert.NotEmpty(t, reg.User.BusinessID)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "rahim", Password: "password1"})
	require.NoError(t, err)
	claims := parseClaims(t, resp.AccessToken, cfg.JWTSecret)
	assert.Equal(t, TokenAccess, claims["typ"])
	assert.Equal(t, reg.User.BusinessID, claims["business_id"])
	assert.Equal(t, "owner", claims["role"])

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "rahim", Password: "wrong-pass"})
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, err = svc.RegisterOwner(ctx, dto.RegisterOwnerRequest{BusinessName: "Other", Name: "R", Username: "rahim", Password: "password2"})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestRefresh_OnlyAcceptsRefreshTokens(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	reg, err := svc.RegisterOwner(ctx, dto.RegisterOwnerRequest{BusinessName: "Shop", Name: "O", Username: "o1", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, reg.AccessToken)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	fresh, err := svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.Refresh(ctx, "garbage")
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestCreateUser_RoleHierarchy(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	reg, err := svc.RegisterOwner(ctx, dto.RegisterOwnerRequest{BusinessName: "Shop", Name: "O", Username: "owner", Password: "password1"})
	require.NoError(t, err)
	biz := uuid.MustParse(reg.User.BusinessID)
	owner := authz.Actor{BusinessID: biz, UserID: uuid.MustParse(reg.User.ID), Role: authz.RoleOwner}

	mgr, err := svc.CreateUser(ctx, owner, dto.CreateUserRequest{Username: "mgr", Name: "Manager", Password: "password1", Role: "manager"})
	require.NoError(t, err)
	require.NotNil(t, mgr.CreatedBy)
	assert.Equal(t, reg.User.ID, *mgr.CreatedBy)

	_, err = svc.CreateUser(ctx, owner, dto.CreateUserRequest{Username: "s0", Name: "Sales", Password: "password1", Role: "salesman"})
	assert.Equal(t, KindForbidden, KindOf(err))

	manager := authz.Actor{BusinessID: biz, UserID: uuid.MustParse(mgr.ID), Role: authz.RoleManager}
	_, err = svc.CreateUser(ctx, manager, dto.CreateUserRequest{Username: "s1", Name: "Sales", Password: "password1", Role: "salesman"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, manager, dto.CreateUserRequest{Username: "m2", Name: "Mgr", Password: "password1", Role: "manager"})
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = svc.CreateUser(ctx, manager, dto.CreateUserRequest{Username: "s1", Name: "Dup", Password: "password1", Role: "salesman"})
	assert.Equal(t, KindConflict, KindOf(err))

	mine, err := svc.ListUsers(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListUsers(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLogin_RejectsDeactivatedUser(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()
	reg, err := svc.RegisterOwner(ctx, dto.RegisterOwnerRequest{BusinessName: "Shop", Name: "Owner", Username: "gone", Password: "password1"})
	require.NoError(t, err)

	users.users[uuid.MustParse(reg.User.ID)].Active = false

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "gone", Password: "password1"})
	assert.Equal(t, KindUnauthorized, KindOf(err))
	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}
