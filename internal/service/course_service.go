package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
}

// CourseService manages course reference data.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// CreateCourseRequest describes a new course.
type CreateCourseRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Faculty     string `json:"faculty"`
	Department  string `json:"department"`
	Credits     int    `json:"credits" validate:"min=0"`
	Description string `json:"description"`
}

// ListCoursesRequest filters course listings.
type ListCoursesRequest struct {
	Faculty  string `json:"faculty"`
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Create adds a course. Program leaders own course setup.
func (s *CourseService) Create(ctx context.Context, actor Actor, req CreateCourseRequest) (*models.Course, error) {
	if actor.Role != models.RoleProgramLeader && actor.Role != models.RoleFacultyManager {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders manage courses")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	course := &models.Course{
		Code:        req.Code,
		Name:        req.Name,
		Faculty:     req.Faculty,
		Department:  req.Department,
		Credits:     req.Credits,
		Description: req.Description,
		Status:      "active",
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, storeError(err, "course not found")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("code", course.Code))
	return course, nil
}

// Get fetches one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "course not found")
	}
	return course, nil
}

// List returns courses matching the filter. Every role may browse courses.
func (s *CourseService) List(ctx context.Context, req ListCoursesRequest) ([]models.Course, *models.Pagination, error) {
	filter := models.CourseFilter{Faculty: req.Faculty, Search: req.Search, Page: req.Page, PageSize: req.PageSize}
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "courses not found")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 {
		pagination.PageSize = 50
	}
	return courses, pagination, nil
}
