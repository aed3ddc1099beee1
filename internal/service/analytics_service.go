package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type lectureReportCounter interface {
	CountByStatus(ctx context.Context, status models.LectureReportStatus) (int, error)
}

type studentReportCounter interface {
	CountByStatus(ctx context.Context, status models.StudentReportStatus) (int, error)
}

type principalReportCounter interface {
	CountByStatus(ctx context.Context, status models.PrincipalReportStatus) (int, error)
}

type ratingAverager interface {
	AverageRating(ctx context.Context, scope models.RatingScope, scopeID string) (*models.AverageRating, error)
}

type attendanceAggregator interface {
	AverageAttendance(ctx context.Context, studentID string) (float64, error)
	PerformanceBuckets(ctx context.Context, studentID string) ([]models.PerformanceBucket, error)
}

type entityCounter interface {
	Count(ctx context.Context) (int, error)
}

// AnalyticsService computes derived statistics: rating averages, pending
// report counts, attendance rollups and the faculty dashboard. Results are
// read-through cached; every write path invalidates its slice of keys.
type AnalyticsService struct {
	lectureReports   lectureReportCounter
	studentReports   studentReportCounter
	principalReports principalReportCounter
	ratings          ratingAverager
	monitoring       attendanceAggregator
	users            entityCounter
	courses          entityCounter
	classes          entityCounter
	cache            *CacheService
	logger           *zap.Logger
}

// NewAnalyticsService constructs the service. Cache may be nil.
func NewAnalyticsService(
	lectureReports lectureReportCounter,
	studentReports studentReportCounter,
	principalReports principalReportCounter,
	ratings ratingAverager,
	monitoring attendanceAggregator,
	users, courses, classes entityCounter,
	cache *CacheService,
	logger *zap.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		lectureReports:   lectureReports,
		studentReports:   studentReports,
		principalReports: principalReports,
		ratings:          ratings,
		monitoring:       monitoring,
		users:            users,
		courses:          courses,
		classes:          classes,
		cache:            cache,
		logger:           logger,
	}
}

// AverageRating computes the mean rating for a course or lecturer. With no
// ratings recorded the result is {0, 0}, not an error.
func (s *AnalyticsService) AverageRating(ctx context.Context, scope models.RatingScope, scopeID string) (*models.AverageRating, error) {
	if !scope.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scope must be course or lecturer")
	}
	if scopeID == "" {
		return nil, appErrors.MissingFields("scope_id")
	}

	key := fmt.Sprintf("analytics:avg_rating:%s:%s", scope, scopeID)
	var cached models.AverageRating
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	avg, err := s.ratings.AverageRating(ctx, scope, scopeID)
	if err != nil {
		return nil, storeError(err, "ratings not found")
	}
	_ = s.cache.Set(ctx, key, avg, 0)
	return avg, nil
}

// PendingCount counts reports of one family still in their initial state.
func (s *AnalyticsService) PendingCount(ctx context.Context, family models.ReportFamily) (int, error) {
	if !family.Valid() {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unknown report family")
	}
	switch family {
	case models.FamilyLectureReports:
		count, err := s.lectureReports.CountByStatus(ctx, models.LectureReportSubmitted)
		if err != nil {
			return 0, storeError(err, "lecture reports not found")
		}
		return count, nil
	case models.FamilyStudentReports:
		count, err := s.studentReports.CountByStatus(ctx, models.StudentReportPending)
		if err != nil {
			return 0, storeError(err, "student reports not found")
		}
		return count, nil
	default:
		count, err := s.principalReports.CountByStatus(ctx, models.PrincipalReportDraft)
		if err != nil {
			return 0, storeError(err, "principal reports not found")
		}
		return count, nil
	}
}

// PendingCounts collects pending counts across all three families.
func (s *AnalyticsService) PendingCounts(ctx context.Context) (*models.PendingCounts, error) {
	key := "analytics:pending_counts"
	var cached models.PendingCounts
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	var counts models.PendingCounts
	var err error
	if counts.LectureReports, err = s.PendingCount(ctx, models.FamilyLectureReports); err != nil {
		return nil, err
	}
	if counts.StudentReports, err = s.PendingCount(ctx, models.FamilyStudentReports); err != nil {
		return nil, err
	}
	if counts.PrincipalReports, err = s.PendingCount(ctx, models.FamilyPrincipalReports); err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, counts, 0)
	return &counts, nil
}

// AttendanceStats aggregates monitoring rows for one student.
func (s *AnalyticsService) AttendanceStats(ctx context.Context, studentID string) (*models.AttendanceStats, error) {
	if studentID == "" {
		return nil, appErrors.MissingFields("student_id")
	}

	key := "analytics:attendance:" + studentID
	var cached models.AttendanceStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	avg, err := s.monitoring.AverageAttendance(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "monitoring records not found")
	}
	buckets, err := s.monitoring.PerformanceBuckets(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "monitoring records not found")
	}
	if buckets == nil {
		buckets = []models.PerformanceBucket{}
	}
	stats := &models.AttendanceStats{StudentID: studentID, AvgAttendance: avg, PerformanceStats: buckets}
	_ = s.cache.Set(ctx, key, stats, 0)
	return stats, nil
}

// Dashboard builds the faculty-wide rollup. Faculty managers and program
// leaders read this; it exposes counts only, never report bodies.
func (s *AnalyticsService) Dashboard(ctx context.Context, actor Actor) (*models.DashboardSummary, error) {
	switch actor.Role {
	case models.RoleFacultyManager, models.RoleProgramLeader, models.RolePrincipalLecturer:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not view the dashboard")
	}

	key := "analytics:dashboard"
	var cached models.DashboardSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	pending, err := s.PendingCounts(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		PendingCounts: *pending,
		ReportsByState: map[string]int{
			"lecture_submitted": pending.LectureReports,
			"student_pending":   pending.StudentReports,
			"principal_draft":   pending.PrincipalReports,
		},
		GeneratedAt: time.Now().UTC(),
	}

	if reviewed, err := s.lectureReports.CountByStatus(ctx, models.LectureReportReviewed); err == nil {
		summary.ReportsByState["lecture_reviewed"] = reviewed
	}
	if addressed, err := s.lectureReports.CountByStatus(ctx, models.LectureReportAddressed); err == nil {
		summary.ReportsByState["lecture_addressed"] = addressed
	}
	if resolved, err := s.studentReports.CountByStatus(ctx, models.StudentReportResolved); err == nil {
		summary.ReportsByState["student_resolved"] = resolved
	}

	if summary.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, storeError(err, "users not found")
	}
	if summary.TotalCourses, err = s.courses.Count(ctx); err != nil {
		return nil, storeError(err, "courses not found")
	}
	if summary.TotalClasses, err = s.classes.Count(ctx); err != nil {
		return nil, storeError(err, "classes not found")
	}

	_ = s.cache.Set(ctx, key, summary, 0)
	return summary, nil
}

// InvalidateReports drops cached aggregates derived from report state.
func (s *AnalyticsService) InvalidateReports(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analytics:pending_counts"); err != nil {
		s.logger.Warn("pending counts invalidation failed", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, "analytics:dashboard"); err != nil {
		s.logger.Warn("dashboard invalidation failed", zap.Error(err))
	}
}

// InvalidateRatings drops cached averages for the given scope.
func (s *AnalyticsService) InvalidateRatings(ctx context.Context, scope models.RatingScope) {
	if s == nil {
		return
	}
	pattern := fmt.Sprintf("analytics:avg_rating:%s:*", scope)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("rating average invalidation failed", zap.Error(err))
	}
}
