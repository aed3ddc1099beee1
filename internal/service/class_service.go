package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type classRepository interface {
	Create(ctx context.Context, class *models.Class) error
	FindByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context) ([]models.ClassDetail, error)
	AssignLecturer(ctx context.Context, classID string, lecturerID *string, assignedBy string) error
	Delete(ctx context.Context, id string) error
}

type classUserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ClassService manages classes and lecturer assignments. Assignment is a
// program leader action and records who assigned.
type ClassService struct {
	repo      classRepository
	users     classUserFinder
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the service.
func NewClassService(repo classRepository, users classUserFinder, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, users: users, audit: audit, validator: validate, logger: logger}
}

// CreateClassRequest describes a new class.
type CreateClassRequest struct {
	Name         string `json:"name" validate:"required"`
	CourseID     string `json:"course_id" validate:"required"`
	LecturerID   string `json:"lecturer_id"`
	ScheduleDay  string `json:"schedule_day"`
	ScheduleTime string `json:"schedule_time"`
	Venue        string `json:"venue"`
	AcademicYear string `json:"academic_year"`
	Semester     string `json:"semester"`
}

// AssignLecturerRequest sets or clears a class's lecturer.
type AssignLecturerRequest struct {
	LecturerID string `json:"lecturer_id"`
}

// Create adds a class.
func (s *ClassService) Create(ctx context.Context, actor Actor, req CreateClassRequest) (*models.Class, error) {
	if actor.Role != models.RoleProgramLeader {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders manage classes")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	class := &models.Class{
		Name:         req.Name,
		CourseID:     req.CourseID,
		ScheduleDay:  req.ScheduleDay,
		ScheduleTime: req.ScheduleTime,
		Venue:        req.Venue,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
	}
	if req.LecturerID != "" {
		if err := s.checkLecturer(ctx, req.LecturerID); err != nil {
			return nil, err
		}
		class.LecturerID = &req.LecturerID
		class.AssignedBy = &actor.ID
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, storeError(err, "class not found")
	}
	s.logger.Info("class created", zap.String("class_id", class.ID), zap.String("course_id", class.CourseID))
	return class, nil
}

// Get fetches one class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "class not found")
	}
	return class, nil
}

// List returns all classes with joined course and lecturer names.
func (s *ClassService) List(ctx context.Context) ([]models.ClassDetail, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "classes not found")
	}
	return classes, nil
}

// AssignLecturer sets the class lecturer; an empty lecturer id unassigns.
func (s *ClassService) AssignLecturer(ctx context.Context, actor Actor, classID string, req AssignLecturerRequest) (*models.Class, error) {
	if actor.Role != models.RoleProgramLeader {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders assign lecturers")
	}
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		return nil, storeError(err, "class not found")
	}

	var lecturerID *string
	if req.LecturerID != "" {
		if err := s.checkLecturer(ctx, req.LecturerID); err != nil {
			return nil, err
		}
		lecturerID = &req.LecturerID
	}
	if err := s.repo.AssignLecturer(ctx, classID, lecturerID, actor.ID); err != nil {
		return nil, storeError(err, "class not found")
	}
	s.logger.Info("lecturer assignment updated",
		zap.String("class_id", classID),
		zap.String("assigned_by", actor.ID))

	class.LecturerID = lecturerID
	class.AssignedBy = &actor.ID
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, actor Actor, id string) error {
	if actor.Role != models.RoleProgramLeader {
		return appErrors.Clone(appErrors.ErrForbidden, "only program leaders delete classes")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeError(err, "class not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "class not found")
	}
	if s.audit != nil {
		entry := &models.AuditLog{
			UserID:     &actor.ID,
			Action:     models.AuditActionClassDelete,
			Resource:   "classes",
			ResourceID: &id,
		}
		if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
			s.logger.Warn("audit write failed", zap.String("class_id", id), zap.Error(err))
		}
	}
	return nil
}

// checkLecturer confirms the target user exists and holds the lecturer role.
func (s *ClassService) checkLecturer(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "lecturer does not exist")
		}
		return storeError(err, "lecturer not found")
	}
	if user.Role != models.RoleLecturer && user.Role != models.RolePrincipalLecturer {
		return appErrors.Clone(appErrors.ErrValidation, "assigned user is not a lecturer")
	}
	return nil
}
