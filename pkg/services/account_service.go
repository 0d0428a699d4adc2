package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
	"github.com/connecta-b2b/connecta-server/pkg/models"
	"github.com/connecta-b2b/connecta-server/pkg/repositories"
)

// RegisterInput is a new company registration.
type RegisterInput struct {
	Name     string
	TaxID    string
	Email    string
	Password string
	Role     models.Role
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	Name        string
	Phone       string
	Website     string
	Description string
}

// AccountService handles registration, login and profile management.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*models.Company, error)

	// Login verifies credentials. Wrong email or password both yield
	// ErrUnauthorized; deactivated accounts yield ErrInactiveAccount.
	Login(ctx context.Context, email, password string) (*models.Company, error)

	Get(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.Company, error)
}

type accountService struct {
	companies repositories.CompanyRepository
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(companies repositories.CompanyRepository, logger *zap.Logger) AccountService {
	return &accountService{
		companies: companies,
		logger:    logger.Named("account-service"),
	}
}

var _ AccountService = (*accountService)(nil)

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*models.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.TaxID == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", apperrors.ErrValidation)
	}
	if !models.ValidRegistrationRole(in.Role) {
		return nil, fmt.Errorf("%w: role must be buyer or supplier", apperrors.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	company := &models.Company{
		Name:         in.Name,
		TaxID:        in.TaxID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("role", string(company.Role)))
	return company, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*models.Company, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	company, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		// Same denial for unknown email and wrong password.
		return nil, apperrors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !company.Active {
		return nil, apperrors.ErrInactiveAccount
	}
	return company, nil
}

func (s *accountService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *accountService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		company.Name = name
	}
	company.Phone = in.Phone
	company.Website = in.Website
	company.Description = in.Description

	if err := s.companies.UpdateProfile(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}
