package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

// UserService manages user accounts.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// RegisterUserRequest describes a signup payload.
type RegisterUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
}

// ListUsersRequest filters user listings.
type ListUsersRequest struct {
	Role     string `json:"role"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Register creates a user account. The role is fixed at creation.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Faculty:      req.Faculty,
		Department:   req.Department,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storeError(err, "user not found")
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// Get fetches one user.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user not found")
	}
	return user, nil
}

// List returns users matching the filter.
func (s *UserService) List(ctx context.Context, actor Actor, req ListUsersRequest) ([]models.User, *models.Pagination, error) {
	if actor.Role == models.RoleStudent {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "students may not list users")
	}
	filter := models.UserFilter{Search: req.Search, Page: req.Page, PageSize: req.PageSize}
	if req.Role != "" {
		role := models.Role(req.Role)
		if !role.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
		}
		filter.Role = &role
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "users not found")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 {
		pagination.PageSize = 50
	}
	return users, pagination, nil
}
