package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type lectureReportRepository interface {
	Create(ctx context.Context, report *models.LectureReport) error
	FindByID(ctx context.Context, id string) (*models.LectureReport, error)
	List(ctx context.Context, filter models.LectureReportFilter) ([]models.LectureReport, int, error)
	MarkReviewed(ctx context.Context, id, principalID, response string, at time.Time) error
	MarkAddressed(ctx context.Context, id, leaderID, response string, at time.Time) error
	AttachFeedback(ctx context.Context, id, authorID, text string, rating int, at time.Time) (bool, error)
	CountByStatus(ctx context.Context, status models.LectureReportStatus) (int, error)
}

// LectureReportService drives the lecture report state machine. Status never
// comes from the caller on creation; every report starts submitted.
type LectureReportService struct {
	repo      lectureReportRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLectureReportService constructs the service.
func NewLectureReportService(repo lectureReportRepository, validate *validator.Validate, logger *zap.Logger) *LectureReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LectureReportService{repo: repo, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SubmitLectureReportRequest describes a lecturer's weekly submission.
type SubmitLectureReportRequest struct {
	ClassID               string    `json:"class_id" validate:"required"`
	CourseID              string    `json:"course_id" validate:"required"`
	DateOfLecture         time.Time `json:"date_of_lecture" validate:"required"`
	WeekOfReporting       int       `json:"week_of_reporting" validate:"required,min=1"`
	TopicTaught           string    `json:"topic_taught" validate:"required"`
	TeachingMethods       string    `json:"teaching_methods"`
	ActualStudentsPresent int       `json:"actual_students_present" validate:"min=0"`
	ChallengesEncountered string    `json:"challenges_encountered"`
}

// RespondRequest carries the response text for a review or address step.
type RespondRequest struct {
	Response string `json:"response" validate:"required"`
}

// FeedbackRequest carries the one-shot principal evaluation payload.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
	Rating   int    `json:"rating" validate:"required"`
}

// ListLectureReportsRequest filters lecture report listings.
type ListLectureReportsRequest struct {
	ClassID  string `json:"class_id"`
	CourseID string `json:"course_id"`
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Submit creates a lecture report in the submitted state. Only lecturers may
// submit, and always on their own behalf.
func (s *LectureReportService) Submit(ctx context.Context, actor Actor, req SubmitLectureReportRequest) (*models.LectureReport, error) {
	if actor.Role != models.RoleLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only lecturers submit lecture reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	report := &models.LectureReport{
		LecturerID:            actor.ID,
		ClassID:               req.ClassID,
		CourseID:              req.CourseID,
		DateOfLecture:         req.DateOfLecture,
		WeekOfReporting:       req.WeekOfReporting,
		TopicTaught:           req.TopicTaught,
		TeachingMethods:       req.TeachingMethods,
		ActualStudentsPresent: req.ActualStudentsPresent,
		ChallengesEncountered: req.ChallengesEncountered,
		Status:                models.LectureReportSubmitted,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	s.logger.Info("lecture report submitted",
		zap.String("report_id", report.ID),
		zap.String("lecturer_id", actor.ID),
		zap.Int("week", report.WeekOfReporting))
	return report, nil
}

// Get fetches one lecture report, enforcing visibility.
func (s *LectureReportService) Get(ctx context.Context, actor Actor, id string) (*models.LectureReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	if err := requireLectureReportAccess(actor, report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns the lecture reports the actor may see. Lecturers are pinned to
// their own reports at the query level; reviewer roles see everything.
func (s *LectureReportService) List(ctx context.Context, actor Actor, req ListLectureReportsRequest) ([]models.LectureReport, *models.Pagination, error) {
	if err := requireFamilyView(actor, models.FamilyLectureReports); err != nil {
		return nil, nil, err
	}
	filter := models.LectureReportFilter{
		ClassID:  req.ClassID,
		CourseID: req.CourseID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if actor.Role == models.RoleLecturer {
		filter.LecturerID = actor.ID
	}
	if req.Status != "" {
		status := models.LectureReportStatus(req.Status)
		filter.Status = &status
	}
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "lecture reports not found")
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

// Review moves a submitted report to reviewed and records the principal
// lecturer response. The authored submission is never touched.
func (s *LectureReportService) Review(ctx context.Context, actor Actor, id string, req RespondRequest) (*models.LectureReport, error) {
	if actor.Role != models.RolePrincipalLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only principal lecturers review lecture reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	if err := validateLectureTransition(report.Status, models.LectureReportReviewed); err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.repo.MarkReviewed(ctx, id, actor.ID, req.Response, at); err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	s.logger.Info("lecture report reviewed", zap.String("report_id", id), zap.String("principal_id", actor.ID))

	report.Status = models.LectureReportReviewed
	report.PrincipalResponse = &req.Response
	report.PrincipalLecturerID = &actor.ID
	report.ReviewedAt = &at
	report.UpdatedAt = at
	return report, nil
}

// Address moves a report into the addressed terminal state with the program
// leader response. Both submitted and reviewed reports qualify.
func (s *LectureReportService) Address(ctx context.Context, actor Actor, id string, req RespondRequest) (*models.LectureReport, error) {
	if actor.Role != models.RoleProgramLeader {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders address lecture reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	if err := validateLectureTransition(report.Status, models.LectureReportAddressed); err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.repo.MarkAddressed(ctx, id, actor.ID, req.Response, at); err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	s.logger.Info("lecture report addressed", zap.String("report_id", id), zap.String("leader_id", actor.ID))

	report.Status = models.LectureReportAddressed
	report.LeaderResponse = &req.Response
	report.ProgramLeaderID = &actor.ID
	report.AddressedAt = &at
	report.UpdatedAt = at
	return report, nil
}

// AttachFeedback writes the single principal evaluation onto a report. The
// first write is final: a second attempt returns CONFLICT and the stored
// feedback stays exactly as first written.
func (s *LectureReportService) AttachFeedback(ctx context.Context, actor Actor, id string, req FeedbackRequest) (*models.LectureReport, error) {
	if actor.Role != models.RolePrincipalLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only principal lecturers attach feedback")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	if report.HasFeedback() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "feedback already attached to this report")
	}

	at := s.now()
	wrote, err := s.repo.AttachFeedback(ctx, id, actor.ID, req.Feedback, req.Rating, at)
	if err != nil {
		return nil, storeError(err, "lecture report not found")
	}
	if !wrote {
		// Lost the race to a concurrent attach; the earlier write stands.
		return nil, appErrors.Clone(appErrors.ErrConflict, "feedback already attached to this report")
	}
	s.logger.Info("feedback attached", zap.String("report_id", id), zap.String("author_id", actor.ID))

	report.FeedbackText = &req.Feedback
	report.FeedbackRating = &req.Rating
	report.FeedbackAuthorID = &actor.ID
	report.FeedbackAt = &at
	report.UpdatedAt = at
	return report, nil
}

// PendingCount counts reports still awaiting their first response.
func (s *LectureReportService) PendingCount(ctx context.Context) (int, error) {
	count, err := s.repo.CountByStatus(ctx, models.LectureReportSubmitted)
	if err != nil {
		return 0, storeError(err, "lecture reports not found")
	}
	return count, nil
}
