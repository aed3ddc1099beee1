package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type studentReportRepository interface {
	Create(ctx context.Context, report *models.StudentReport) error
	FindByID(ctx context.Context, id string) (*models.StudentReport, error)
	List(ctx context.Context, filter models.StudentReportFilter) ([]models.StudentReport, int, error)
	SaveResponse(ctx context.Context, id string, status models.StudentReportStatus, principalID, response, actionTaken string, at time.Time) error
	CountByStatus(ctx context.Context, status models.StudentReportStatus) (int, error)
}

type nameResolver interface {
	FindByFullName(ctx context.Context, fullName string, role models.Role) (*models.User, error)
}

type courseNameResolver interface {
	FindByName(ctx context.Context, name string) (*models.Course, error)
}

// StudentReportService handles student issue reports. Lecturer and course
// arrive as free-typed names; the service resolves them to ids when a match
// exists and stores both, so the report survives later renames.
type StudentReportService struct {
	repo      studentReportRepository
	users     nameResolver
	courses   courseNameResolver
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentReportService constructs the service.
func NewStudentReportService(repo studentReportRepository, users nameResolver, courses courseNameResolver, validate *validator.Validate, logger *zap.Logger) *StudentReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentReportService{
		repo:      repo,
		users:     users,
		courses:   courses,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitStudentReportRequest describes a student issue submission.
type SubmitStudentReportRequest struct {
	LecturerName string    `json:"lecturer_name" validate:"required"`
	CourseName   string    `json:"course_name" validate:"required"`
	IssueType    string    `json:"issue_type" validate:"required"`
	UrgencyLevel string    `json:"urgency_level"`
	Description  string    `json:"description" validate:"required"`
	DateOccurred time.Time `json:"date_occurred"`
}

// RespondStudentReportRequest carries a principal lecturer response. Status
// selects the target state; resubmitting overwrites the earlier response.
type RespondStudentReportRequest struct {
	Status      string `json:"status" validate:"required"`
	Response    string `json:"response" validate:"required"`
	ActionTaken string `json:"action_taken"`
}

// ListStudentReportsRequest filters student report listings.
type ListStudentReportsRequest struct {
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Submit creates a student report in the pending state.
func (s *StudentReportService) Submit(ctx context.Context, actor Actor, req SubmitStudentReportRequest) (*models.StudentReport, error) {
	if actor.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students submit student reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	urgency := models.UrgencyLevel(req.UrgencyLevel)
	if req.UrgencyLevel == "" {
		urgency = models.UrgencyMedium
	}
	if !urgency.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "urgency_level must be low, medium, high or urgent")
	}

	occurred := req.DateOccurred
	if occurred.IsZero() {
		occurred = s.now()
	}

	report := &models.StudentReport{
		StudentID:    actor.ID,
		LecturerName: req.LecturerName,
		CourseName:   req.CourseName,
		IssueType:    req.IssueType,
		UrgencyLevel: urgency,
		Description:  req.Description,
		DateOccurred: occurred,
		Status:       models.StudentReportPending,
	}
	report.LecturerID = s.resolveLecturer(ctx, req.LecturerName)
	report.CourseID = s.resolveCourse(ctx, req.CourseName)

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, storeError(err, "student report not found")
	}
	s.logger.Info("student report submitted",
		zap.String("report_id", report.ID),
		zap.String("student_id", actor.ID),
		zap.String("urgency", string(urgency)))
	return report, nil
}

// resolveLecturer looks up the typed lecturer name. A miss is not an error;
// the report simply carries no resolved id.
func (s *StudentReportService) resolveLecturer(ctx context.Context, name string) *string {
	if s.users == nil {
		return nil
	}
	lecturer, err := s.users.FindByFullName(ctx, name, models.RoleLecturer)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("lecturer name lookup failed", zap.String("name", name), zap.Error(err))
		}
		return nil
	}
	return &lecturer.ID
}

func (s *StudentReportService) resolveCourse(ctx context.Context, name string) *string {
	if s.courses == nil {
		return nil
	}
	course, err := s.courses.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("course name lookup failed", zap.String("name", name), zap.Error(err))
		}
		return nil
	}
	return &course.ID
}

// Get fetches one student report, enforcing visibility.
func (s *StudentReportService) Get(ctx context.Context, actor Actor, id string) (*models.StudentReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "student report not found")
	}
	if err := requireStudentReportAccess(actor, report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns the student reports the actor may see. Students are pinned to
// their own, lecturers to the reports naming them; principal lecturers see all.
func (s *StudentReportService) List(ctx context.Context, actor Actor, req ListStudentReportsRequest) ([]models.StudentReport, *models.Pagination, error) {
	if err := requireFamilyView(actor, models.FamilyStudentReports); err != nil {
		return nil, nil, err
	}
	filter := models.StudentReportFilter{Page: req.Page, PageSize: req.PageSize}
	switch actor.Role {
	case models.RoleStudent:
		filter.StudentID = actor.ID
	case models.RoleLecturer:
		filter.LecturerName = actor.FullName
	}
	if req.Status != "" {
		status := models.StudentReportStatus(req.Status)
		if !status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown student report status")
		}
		filter.Status = &status
	}
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "student reports not found")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 {
		pagination.PageSize = 50
	}
	return reports, pagination, nil
}

// Respond records a principal lecturer response and the target state. A later
// response replaces the earlier one wholesale and restamps responded_at.
func (s *StudentReportService) Respond(ctx context.Context, actor Actor, id string, req RespondStudentReportRequest) (*models.StudentReport, error) {
	if !actor.Role.CanRespondTo(models.FamilyStudentReports) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only principal lecturers respond to student reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	target := models.StudentReportStatus(req.Status)
	if err := validateStudentReportTarget(target); err != nil {
		return nil, err
	}

	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "student report not found")
	}

	at := s.now()
	if err := s.repo.SaveResponse(ctx, id, target, actor.ID, req.Response, req.ActionTaken, at); err != nil {
		return nil, storeError(err, "student report not found")
	}
	s.logger.Info("student report response recorded",
		zap.String("report_id", id),
		zap.String("principal_id", actor.ID),
		zap.String("status", string(target)))

	report.Status = target
	report.PrincipalResponse = &req.Response
	report.PrincipalLecturerID = &actor.ID
	report.ActionTaken = &req.ActionTaken
	report.RespondedAt = &at
	report.UpdatedAt = at
	return report, nil
}

// PendingCount counts reports still awaiting triage.
func (s *StudentReportService) PendingCount(ctx context.Context) (int, error) {
	count, err := s.repo.CountByStatus(ctx, models.StudentReportPending)
	if err != nil {
		return 0, storeError(err, "student reports not found")
	}
	return count, nil
}
