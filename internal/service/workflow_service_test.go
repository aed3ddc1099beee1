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

type auditStub struct {
	entries []models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.entries = append(a.entries, *log)
	return nil
}

type workflowFixture struct {
	workflow    *WorkflowService
	lectureRepo *lectureRepoStub
	studentRepo *studentRepoStub
	ratingRepo  *ratingRepoStub
	audit       *auditStub
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	lectureRepo := newLectureRepoStub()
	studentRepo := newStudentRepoStub()
	principalRepo := newPrincipalRepoStub()
	ratingRepo := newRatingRepoStub()
	lecturerID := lecturerActor.ID
	classes := &classFinderStub{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", LecturerID: &lecturerID},
	}}
	audit := &auditStub{}

	lectureSvc := NewLectureReportService(lectureRepo, nil, zap.NewNop())
	studentSvc := NewStudentReportService(studentRepo, nil, nil, nil, zap.NewNop())
	principalSvc := NewPrincipalReportService(principalRepo, nil, zap.NewNop())
	ratingSvc := NewRatingService(ratingRepo, classes, nil, zap.NewNop())
	analyticsSvc := NewAnalyticsService(
		lectureRepo, studentRepo, principalRepo, ratingRepo,
		&attendanceStub{avg: 91.0}, &counterStub{}, &counterStub{}, &counterStub{},
		nil, zap.NewNop(),
	)
	workflow := NewWorkflowService(lectureSvc, studentSvc, principalSvc, ratingSvc, analyticsSvc, nil, audit, zap.NewNop())
	return &workflowFixture{
		workflow:    workflow,
		lectureRepo: lectureRepo,
		studentRepo: studentRepo,
		ratingRepo:  ratingRepo,
		audit:       audit,
	}
}

func TestWorkflowSubmitRecordsAudit(t *testing.T) {
	f := newWorkflowFixture(t)

	report, err := f.workflow.SubmitLectureReport(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, models.AuditActionReportSubmit, entry.Action)
	assert.Equal(t, "lecture_reports", entry.Resource)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, report.ID, *entry.ResourceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, lecturerActor.ID, *entry.UserID)
}

func TestWorkflowSubmitFailureSkipsAudit(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.workflow.SubmitLectureReport(context.Background(), studentActor, validSubmitRequest())
	require.Error(t, err)
	assert.Empty(t, f.audit.entries)
}

func TestWorkflowFullLectureLifecycle(t *testing.T) {
	f := newWorkflowFixture(t)

	report, err := f.workflow.SubmitLectureReport(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	reviewed, err := f.workflow.ReviewLectureReport(context.Background(), principalActor, report.ID, RespondRequest{Response: "reviewed"})
	require.NoError(t, err)
	assert.Equal(t, models.LectureReportReviewed, reviewed.Status)

	addressed, err := f.workflow.AddressLectureReport(context.Background(), leaderActor, report.ID, RespondRequest{Response: "addressed"})
	require.NoError(t, err)
	assert.Equal(t, models.LectureReportAddressed, addressed.Status)

	_, err = f.workflow.AttachFeedback(context.Background(), principalActor, report.ID, FeedbackRequest{Feedback: "thorough", Rating: 5})
	require.NoError(t, err)

	assert.Len(t, f.audit.entries, 4)
}

func TestWorkflowRejectedTransitionSurfaces(t *testing.T) {
	f := newWorkflowFixture(t)

	report, err := f.workflow.SubmitLectureReport(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	_, err = f.workflow.AddressLectureReport(context.Background(), leaderActor, report.ID, RespondRequest{Response: "done"})
	require.NoError(t, err)

	_, err = f.workflow.ReviewLectureReport(context.Background(), principalActor, report.ID, RespondRequest{Response: "late"})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_TRANSITION", appErr.Code)
}

func TestWorkflowGetReportRoutesByFamily(t *testing.T) {
	f := newWorkflowFixture(t)

	report, err := f.workflow.SubmitLectureReport(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	got, err := f.workflow.GetReport(context.Background(), lecturerActor, models.FamilyLectureReports, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FamilyLectureReports, got.Family)
	require.Len(t, got.LectureReports, 1)
	assert.Empty(t, got.StudentReports)

	_, err = f.workflow.GetReport(context.Background(), lecturerActor, models.ReportFamily("grades"), report.ID)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestWorkflowVisibleReportsScopes(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.workflow.SubmitLectureReport(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)
	other := Actor{ID: "lect-2", Role: models.RoleLecturer, FullName: "Mary Major"}
	_, err = f.workflow.SubmitLectureReport(context.Background(), other, validSubmitRequest())
	require.NoError(t, err)

	list, err := f.workflow.VisibleReports(context.Background(), lecturerActor, models.FamilyLectureReports, 1, 50)
	require.NoError(t, err)
	require.Len(t, list.LectureReports, 1)
	assert.Equal(t, lecturerActor.ID, list.LectureReports[0].LecturerID)

	_, err = f.workflow.VisibleReports(context.Background(), studentActor, models.FamilyLectureReports, 1, 50)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestWorkflowAggregatePendingCount(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.workflow.SubmitLectureReport(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	result, err := f.workflow.Aggregate(context.Background(), leaderActor, AggregateQuery{
		Kind:   AggregatePendingCount,
		Family: models.FamilyLectureReports,
	})
	require.NoError(t, err)
	payload, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1, payload["pending"])
}

func TestWorkflowAggregateAttendanceOwnOnly(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.workflow.Aggregate(context.Background(), studentActor, AggregateQuery{
		Kind:      AggregateAttendanceStats,
		StudentID: "stud-2",
	})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	result, err := f.workflow.Aggregate(context.Background(), studentActor, AggregateQuery{
		Kind:      AggregateAttendanceStats,
		StudentID: studentActor.ID,
	})
	require.NoError(t, err)
	stats, ok := result.(*models.AttendanceStats)
	require.True(t, ok)
	assert.InDelta(t, 91.0, stats.AvgAttendance, 0.0001)
}

func TestWorkflowAggregateUnknownKind(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.workflow.Aggregate(context.Background(), leaderActor, AggregateQuery{Kind: AggregateKind("median")})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
