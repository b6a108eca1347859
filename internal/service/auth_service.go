package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/config"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token types carried in the "typ" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var errBadCredentials = &Error{Kind: KindUnauthorized, Code: "invalid_credentials", Message: "invalid credentials"}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	RegisterOwner(ctx context.Context, req dto.RegisterOwnerRequest) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, actor authz.Actor) ([]dto.UserResponse, error)
}

type authService struct {
	repo       repository.UserRepository
	businesses repository.BusinessRepository
	policy     *authz.Policy
	cfg        *config.Config
	// bcryptCost is lowered by tests.
	bcryptCost int
}

func NewAuthService(repo repository.UserRepository, businesses repository.BusinessRepository, policy *authz.Policy, cfg *config.Config) AuthService {
	return &authService{repo: repo, businesses: businesses, policy: policy, cfg: cfg, bcryptCost: 12}
}

// NewAuthServiceWithCost is NewAuthService with a custom bcrypt cost.
func NewAuthServiceWithCost(repo repository.UserRepository, businesses repository.BusinessRepository, policy *authz.Policy, cfg *config.Config, cost int) AuthService {
	s := NewAuthService(repo, businesses, policy, cfg).(*authService)
	s.bcryptCost = cost
	return s
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil || !user.Active {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, &Error{Kind: KindUnauthorized, Code: "invalid_token", Message: "refresh token invalid or expired"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenRefresh {
		return nil, &Error{Kind: KindUnauthorized, Code: "invalid_token", Message: "not a refresh token"}
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Code: "invalid_token", Message: "malformed token"}
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, &Error{Kind: KindUnauthorized, Code: "invalid_token", Message: "user not found or inactive"}
	}
	return s.issueTokens(user)
}

// RegisterOwner creates a business and its owner account in one transaction.
func (s *authService) RegisterOwner(ctx context.Context, req dto.RegisterOwnerRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	biz := &model.Business{
		Name:    strings.TrimSpace(req.BusinessName),
		Email:   req.BusinessEmail,
		Phone:   req.Phone,
		Address: req.Address,
	}
	owner := &model.User{
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         string(authz.RoleOwner),
		Active:       true,
	}
	err = runTx(ctx, s.businesses.DB(), func(tx *gorm.DB) error {
		if err := s.businesses.CreateTx(tx, biz); err != nil {
			return fmt.Errorf("create business: %w", err)
		}
		owner.BusinessID = biz.ID
		if err := s.repo.CreateTx(tx, owner); err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.issueTokens(owner)
}

// CreateUser lets owners add managers and managers add salesmen to their business.
func (s *authService) CreateUser(ctx context.Context, actor authz.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.policy.Require(actor, authz.CapUserManage); err != nil {
		return nil, err
	}
	role := authz.Role(req.Role)
	if !role.Valid() {
		return nil, validationErr("invalid_role", "role", "Unknown role")
	}
	if !s.policy.CanCreate(actor, role) {
		return nil, &Error{
			Kind:    KindForbidden,
			Code:    "role_not_creatable",
			Message: fmt.Sprintf("a %s cannot create %s accounts", actor.Role, role),
		}
	}
	username := strings.TrimSpace(req.Username)
	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	creator := actor.UserID
	user := &model.User{
		BusinessID:   actor.BusinessID,
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         string(role),
		CreatedBy:    &creator,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	resp := userToResponse(user)
	return &resp, nil
}

// ListUsers shows owners the whole business and managers the salesmen they created.
func (s *authService) ListUsers(ctx context.Context, actor authz.Actor) ([]dto.UserResponse, error) {
	if err := s.policy.Require(actor, authz.CapUserManage); err != nil {
		return nil, err
	}
	var createdBy *uuid.UUID
	if actor.Role != authz.RoleOwner {
		createdBy = &actor.UserID
	}
	users, err := s.repo.ListByBusiness(ctx, actor.BusinessID, createdBy)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ensureUsernameFree(ctx context.Context, username string) error {
	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return conflictErr("username_taken", "username", "Username is already taken")
	}
	return nil
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, typ string, duration time.Duration) (string, error) {
	if user.BusinessID == uuid.Nil {
		return "", errors.New("user has no business")
	}
	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"business_id": user.BusinessID.String(),
		"username":    user.Username,
		"role":        user.Role,
		"typ":         typ,
		"exp":         time.Now().Add(duration).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
