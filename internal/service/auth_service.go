package service

import (
	"context"
	"errors"
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/apperr"
	"go-inventory-ledger/pkg/jwt"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type AuthResponse struct {
	Token    string          `json:"token"`
	Business *model.Business `json:"business"`
}

// AuthService is the Identity collaborator: it issues the tokens that carry the tenant id.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, in LoginInput) (*AuthResponse, error)
	Me(ctx context.Context, tenantID uuid.UUID) (*model.Business, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}

type authService struct {
	businesses repository.BusinessRepository
	tokens     *jwt.Manager
	log        *zap.Logger
}

func NewAuthService(businesses repository.BusinessRepository, tokens *jwt.Manager, log *zap.Logger) AuthService {
	return &authService{businesses: businesses, tokens: tokens, log: log}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	business := &model.Business{Name: in.Name, Email: in.Email}
	if err := business.SetPassword(in.Password); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Business already exists with this email")
		}
		return nil, apperr.Internal(err)
	}

	s.log.Info("business registered", zap.String("tenant_id", business.ID.String()))
	return s.issue(business)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if msg := validator.FirstError(&in); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	business, err := s.businesses.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, apperr.Internal(err)
	}
	if !business.CheckPassword(in.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return s.issue(business)
}

func (s *authService) Me(ctx context.Context, tenantID uuid.UUID) (*model.Business, error) {
	business, err := s.businesses.FindByID(ctx, tenantID)
	if err != nil {
		return nil, notFound(err, "Business not found")
	}
	return business, nil
}

func (s *authService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if msg := validator.FirstError(&in); msg != "" {
		return apperr.Validation("%s", msg)
	}

	business, err := s.businesses.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Unauthorized("Invalid credentials")
		}
		return apperr.Internal(err)
	}
	if !business.CheckPassword(in.OldPassword) {
		return apperr.Unauthorized("Current password is incorrect")
	}
	if err := business.SetPassword(in.NewPassword); err != nil {
		return apperr.Internal(err)
	}
	if err := s.businesses.UpdatePassword(ctx, business.ID, business.Password); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *authService) issue(business *model.Business) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(business.ID, business.Email, business.Name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResponse{Token: token, Business: business}, nil
}
