package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// WorkflowService is the single entry point handlers use for report
// operations. It routes by family, then layers auditing, submission metrics
// and aggregate cache invalidation over the family services. Validation,
// transitions and visibility stay inside those services; nothing here
// re-checks them.
type WorkflowService struct {
	lectureReports   *LectureReportService
	studentReports   *StudentReportService
	principalReports *PrincipalReportService
	ratings          *RatingService
	analytics        *AnalyticsService
	metrics          *MetricsService
	audit            auditRecorder
	logger           *zap.Logger
}

// NewWorkflowService constructs the facade. Metrics and audit may be nil.
func NewWorkflowService(
	lectureReports *LectureReportService,
	studentReports *StudentReportService,
	principalReports *PrincipalReportService,
	ratings *RatingService,
	analytics *AnalyticsService,
	metrics *MetricsService,
	audit auditRecorder,
	logger *zap.Logger,
) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		lectureReports:   lectureReports,
		studentReports:   studentReports,
		principalReports: principalReports,
		ratings:          ratings,
		analytics:        analytics,
		metrics:          metrics,
		audit:            audit,
		logger:           logger,
	}
}

// ReportList is a family-tagged listing result. Exactly one of the slices is
// populated, matching Family.
type ReportList struct {
	Family           models.ReportFamily      `json:"family"`
	LectureReports   []models.LectureReport   `json:"lecture_reports,omitempty"`
	StudentReports   []models.StudentReport   `json:"student_reports,omitempty"`
	PrincipalReports []models.PrincipalReport `json:"principal_reports,omitempty"`
	Pagination       *models.Pagination       `json:"pagination,omitempty"`
}

// AggregateKind selects which derived statistic Aggregate computes.
type AggregateKind string

const (
	AggregateAverageRating   AggregateKind = "average_rating"
	AggregatePendingCount    AggregateKind = "pending_count"
	AggregateAttendanceStats AggregateKind = "attendance_stats"
)

// AggregateQuery names one derived statistic.
type AggregateQuery struct {
	Kind      AggregateKind       `json:"kind"`
	Scope     models.RatingScope  `json:"scope,omitempty"`
	ScopeID   string              `json:"scope_id,omitempty"`
	Family    models.ReportFamily `json:"family,omitempty"`
	StudentID string              `json:"student_id,omitempty"`
}

// SubmitLectureReport creates a lecture report and fans out bookkeeping.
func (s *WorkflowService) SubmitLectureReport(ctx context.Context, actor Actor, req SubmitLectureReportRequest) (*models.LectureReport, error) {
	report, err := s.lectureReports.Submit(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordReportSubmitted(models.FamilyLectureReports)
	s.analytics.InvalidateReports(ctx)
	s.recordAudit(ctx, actor, models.AuditActionReportSubmit, "lecture_reports", report.ID, report)
	return report, nil
}

// SubmitStudentReport creates a student report and fans out bookkeeping.
func (s *WorkflowService) SubmitStudentReport(ctx context.Context, actor Actor, req SubmitStudentReportRequest) (*models.StudentReport, error) {
	report, err := s.studentReports.Submit(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordReportSubmitted(models.FamilyStudentReports)
	s.analytics.InvalidateReports(ctx)
	s.recordAudit(ctx, actor, models.AuditActionReportSubmit, "student_reports", report.ID, report)
	return report, nil
}

// CreatePrincipalReport creates a principal summary report.
func (s *WorkflowService) CreatePrincipalReport(ctx context.Context, actor Actor, req CreatePrincipalReportRequest) (*models.PrincipalReport, error) {
	report, err := s.principalReports.Create(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordReportSubmitted(models.FamilyPrincipalReports)
	s.analytics.InvalidateReports(ctx)
	s.recordAudit(ctx, actor, models.AuditActionReportSubmit, "principal_reports", report.ID, report)
	return report, nil
}

// ReviewLectureReport applies the review transition.
func (s *WorkflowService) ReviewLectureReport(ctx context.Context, actor Actor, id string, req RespondRequest) (*models.LectureReport, error) {
	report, err := s.lectureReports.Review(ctx, actor, id, req)
	if err != nil {
		s.noteRejection(err)
		return nil, err
	}
	s.analytics.InvalidateReports(ctx)
	s.recordAudit(ctx, actor, models.AuditActionReportRespond, "lecture_reports", id, report)
	return report, nil
}

// AddressLectureReport applies the address transition.
func (s *WorkflowService) AddressLectureReport(ctx context.Context, actor Actor, id string, req RespondRequest) (*models.LectureReport, error) {
	report, err := s.lectureReports.Address(ctx, actor, id, req)
	if err != nil {
		s.noteRejection(err)
		return nil, err
	}
	s.analytics.InvalidateReports(ctx)
	s.recordAudit(ctx, actor, models.AuditActionReportRespond, "lecture_reports", id, report)
	return report, nil
}

// RespondToStudentReport records a principal response on a student report.
func (s *WorkflowService) RespondToStudentReport(ctx context.Context, actor Actor, id string, req RespondStudentReportRequest) (*models.StudentReport, error) {
	report, err := s.studentReports.Respond(ctx, actor, id, req)
	if err != nil {
		s.noteRejection(err)
		return nil, err
	}
	s.analytics.InvalidateReports(ctx)
	s.recordAudit(ctx, actor, models.AuditActionReportRespond, "student_reports", id, report)
	return report, nil
}

// AttachFeedback writes the one-shot evaluation onto a lecture report.
func (s *WorkflowService) AttachFeedback(ctx context.Context, actor Actor, id string, req FeedbackRequest) (*models.LectureReport, error) {
	report, err := s.lectureReports.AttachFeedback(ctx, actor, id, req)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, models.AuditActionFeedbackAttach, "lecture_reports", id, report)
	return report, nil
}

// RateClass upserts a lecturer's class rating.
func (s *WorkflowService) RateClass(ctx context.Context, actor Actor, req RateClassRequest) (*models.ClassRating, error) {
	rating, err := s.ratings.RateClass(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, models.AuditActionClassRate, "class_ratings", rating.ID, rating)
	return rating, nil
}

// SubmitRating stores a student rating and drops the affected averages.
func (s *WorkflowService) SubmitRating(ctx context.Context, actor Actor, req SubmitRatingRequest) (*models.Rating, error) {
	rating, err := s.ratings.Submit(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	s.analytics.InvalidateRatings(ctx, rating.RatingType)
	return rating, nil
}

// GetReport fetches one report of the given family, enforcing visibility.
func (s *WorkflowService) GetReport(ctx context.Context, actor Actor, family models.ReportFamily, id string) (*ReportList, error) {
	switch family {
	case models.FamilyLectureReports:
		report, err := s.lectureReports.Get(ctx, actor, id)
		if err != nil {
			return nil, err
		}
		return &ReportList{Family: family, LectureReports: []models.LectureReport{*report}}, nil
	case models.FamilyStudentReports:
		report, err := s.studentReports.Get(ctx, actor, id)
		if err != nil {
			return nil, err
		}
		return &ReportList{Family: family, StudentReports: []models.StudentReport{*report}}, nil
	case models.FamilyPrincipalReports:
		report, err := s.principalReports.Get(ctx, actor, id)
		if err != nil {
			return nil, err
		}
		return &ReportList{Family: family, PrincipalReports: []models.PrincipalReport{*report}}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report family")
	}
}

// VisibleReports lists the reports of one family the actor may see.
func (s *WorkflowService) VisibleReports(ctx context.Context, actor Actor, family models.ReportFamily, page, pageSize int) (*ReportList, error) {
	switch family {
	case models.FamilyLectureReports:
		reports, pagination, err := s.lectureReports.List(ctx, actor, ListLectureReportsRequest{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		return &ReportList{Family: family, LectureReports: reports, Pagination: pagination}, nil
	case models.FamilyStudentReports:
		reports, pagination, err := s.studentReports.List(ctx, actor, ListStudentReportsRequest{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		return &ReportList{Family: family, StudentReports: reports, Pagination: pagination}, nil
	case models.FamilyPrincipalReports:
		reports, err := s.principalReports.List(ctx, actor)
		if err != nil {
			return nil, err
		}
		return &ReportList{Family: family, PrincipalReports: reports}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report family")
	}
}

// Aggregate computes one derived statistic. Faculty managers come through
// here exclusively; they have no per-report read path.
func (s *WorkflowService) Aggregate(ctx context.Context, actor Actor, query AggregateQuery) (interface{}, error) {
	switch query.Kind {
	case AggregateAverageRating:
		return s.analytics.AverageRating(ctx, query.Scope, query.ScopeID)
	case AggregatePendingCount:
		count, err := s.analytics.PendingCount(ctx, query.Family)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"family": query.Family, "pending": count}, nil
	case AggregateAttendanceStats:
		if actor.Role == models.RoleStudent && actor.ID != query.StudentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only view their own attendance")
		}
		return s.analytics.AttendanceStats(ctx, query.StudentID)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown aggregate kind")
	}
}

// noteRejection counts illegal transition attempts for monitoring.
func (s *WorkflowService) noteRejection(err error) {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Code == appErrors.ErrInvalidTransition.Code {
		s.metrics.RecordTransitionRejected()
	}
}

// recordAudit writes an audit row. Audit failures are logged, never surfaced.
func (s *WorkflowService) recordAudit(ctx context.Context, actor Actor, action, resource, resourceID string, payload interface{}) {
	if s.audit == nil {
		return
	}
	values, err := json.Marshal(payload)
	if err != nil {
		values = nil
	}
	entry := &models.AuditLog{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  values,
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}
