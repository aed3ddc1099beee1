package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type lectureCounterStub struct {
	byStatus map[models.LectureReportStatus]int
}

func (s *lectureCounterStub) CountByStatus(ctx context.Context, status models.LectureReportStatus) (int, error) {
	return s.byStatus[status], nil
}

type studentCounterStub struct {
	byStatus map[models.StudentReportStatus]int
}

func (s *studentCounterStub) CountByStatus(ctx context.Context, status models.StudentReportStatus) (int, error) {
	return s.byStatus[status], nil
}

type principalCounterStub struct {
	byStatus map[models.PrincipalReportStatus]int
}

func (s *principalCounterStub) CountByStatus(ctx context.Context, status models.PrincipalReportStatus) (int, error) {
	return s.byStatus[status], nil
}

type averagerStub struct {
	averages map[string]*models.AverageRating
}

func (s *averagerStub) AverageRating(ctx context.Context, scope models.RatingScope, scopeID string) (*models.AverageRating, error) {
	if avg, ok := s.averages[string(scope)+"/"+scopeID]; ok {
		return avg, nil
	}
	return &models.AverageRating{Scope: scope, ScopeID: scopeID}, nil
}

type attendanceStub struct {
	avg     float64
	buckets []models.PerformanceBucket
}

func (s *attendanceStub) AverageAttendance(ctx context.Context, studentID string) (float64, error) {
	return s.avg, nil
}

func (s *attendanceStub) PerformanceBuckets(ctx context.Context, studentID string) ([]models.PerformanceBucket, error) {
	return s.buckets, nil
}

type counterStub struct {
	total int
}

func (s *counterStub) Count(ctx context.Context) (int, error) {
	return s.total, nil
}

func newAnalyticsServiceForTest(t *testing.T) *AnalyticsService {
	t.Helper()
	return NewAnalyticsService(
		&lectureCounterStub{byStatus: map[models.LectureReportStatus]int{
			models.LectureReportSubmitted: 3,
			models.LectureReportReviewed:  2,
		}},
		&studentCounterStub{byStatus: map[models.StudentReportStatus]int{
			models.StudentReportPending:  5,
			models.StudentReportResolved: 1,
		}},
		&principalCounterStub{byStatus: map[models.PrincipalReportStatus]int{
			models.PrincipalReportDraft: 1,
		}},
		&averagerStub{averages: map[string]*models.AverageRating{
			"course/course-1": {Scope: models.RatingScopeCourse, ScopeID: "course-1", Average: 4.2, Count: 12},
		}},
		&attendanceStub{avg: 87.5, buckets: []models.PerformanceBucket{{PerformanceRating: "good", Count: 4}}},
		&counterStub{total: 40},
		&counterStub{total: 6},
		&counterStub{total: 9},
		nil,
		zap.NewNop(),
	)
}

func TestAnalyticsAverageRating(t *testing.T) {
	svc := newAnalyticsServiceForTest(t)

	avg, err := svc.AverageRating(context.Background(), models.RatingScopeCourse, "course-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.2, avg.Average, 0.0001)
	assert.Equal(t, 12, avg.Count)
}

func TestAnalyticsAverageRatingEmptyIsZero(t *testing.T) {
	svc := newAnalyticsServiceForTest(t)

	avg, err := svc.AverageRating(context.Background(), models.RatingScopeLecturer, "lect-9")
	require.NoError(t, err)
	assert.Equal(t, 0, avg.Count)
	assert.Equal(t, 0.0, avg.Average)
}

func TestAnalyticsAverageRatingValidatesScope(t *testing.T) {
	svc := newAnalyticsServiceForTest(t)

	_, err := svc.AverageRating(context.Background(), models.RatingScope("class"), "class-1")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	_, err = svc.AverageRating(context.Background(), models.RatingScopeCourse, "")
	appErr = appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestAnalyticsPendingCounts(t *testing.T) {
	svc := newAnalyticsServiceForTest(t)

	counts, err := svc.PendingCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, counts.LectureReports)
	assert.Equal(t, 5, counts.StudentReports)
	assert.Equal(t, 1, counts.PrincipalReports)
	assert.Equal(t, 9, counts.Total())
}

func TestAnalyticsAttendanceStats(t *testing.T) {
	svc := newAnalyticsServiceForTest(t)

	stats, err := svc.AttendanceStats(context.Background(), "stud-1")
	require.NoError(t, err)
	assert.InDelta(t, 87.5, stats.AvgAttendance, 0.0001)
	require.Len(t, stats.PerformanceStats, 1)
	assert.Equal(t, "good", stats.PerformanceStats[0].PerformanceRating)
}

func TestAnalyticsAttendanceStatsEmptyBuckets(t *testing.T) {
	svc := NewAnalyticsService(
		&lectureCounterStub{}, &studentCounterStub{}, &principalCounterStub{},
		&averagerStub{}, &attendanceStub{}, &counterStub{}, &counterStub{}, &counterStub{},
		nil, zap.NewNop(),
	)

	stats, err := svc.AttendanceStats(context.Background(), "stud-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AvgAttendance)
	assert.NotNil(t, stats.PerformanceStats)
	assert.Empty(t, stats.PerformanceStats)
}

func TestAnalyticsDashboardRoleGate(t *testing.T) {
	svc := newAnalyticsServiceForTest(t)
	manager := Actor{ID: "mgr-1", Role: models.RoleFacultyManager, FullName: "Fay Manager"}

	summary, err := svc.Dashboard(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, 40, summary.TotalUsers)
	assert.Equal(t, 6, summary.TotalCourses)
	assert.Equal(t, 9, summary.TotalClasses)
	assert.Equal(t, 3, summary.ReportsByState["lecture_submitted"])
	assert.Equal(t, 2, summary.ReportsByState["lecture_reviewed"])
	assert.Equal(t, 1, summary.ReportsByState["student_resolved"])

	_, err = svc.Dashboard(context.Background(), studentActor)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	_, err = svc.Dashboard(context.Background(), lecturerActor)
	appErr = appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}
