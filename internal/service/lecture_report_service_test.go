package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type lectureRepoStub struct {
	reports map[string]*models.LectureReport
}

func newLectureRepoStub() *lectureRepoStub {
	return &lectureRepoStub{reports: map[string]*models.LectureReport{}}
}

func (r *lectureRepoStub) Create(ctx context.Context, report *models.LectureReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

func (r *lectureRepoStub) FindByID(ctx context.Context, id string) (*models.LectureReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *report
	return &copied, nil
}

func (r *lectureRepoStub) List(ctx context.Context, filter models.LectureReportFilter) ([]models.LectureReport, int, error) {
	var out []models.LectureReport
	for _, report := range r.reports {
		if filter.LecturerID != "" && report.LecturerID != filter.LecturerID {
			continue
		}
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		out = append(out, *report)
	}
	return out, len(out), nil
}

func (r *lectureRepoStub) MarkReviewed(ctx context.Context, id, principalID, response string, at time.Time) error {
	report, ok := r.reports[id]
	if !ok {
		return sql.ErrNoRows
	}
	report.Status = models.LectureReportReviewed
	report.PrincipalResponse = &response
	report.PrincipalLecturerID = &principalID
	report.ReviewedAt = &at
	return nil
}

func (r *lectureRepoStub) MarkAddressed(ctx context.Context, id, leaderID, response string, at time.Time) error {
	report, ok := r.reports[id]
	if !ok {
		return sql.ErrNoRows
	}
	report.Status = models.LectureReportAddressed
	report.LeaderResponse = &response
	report.ProgramLeaderID = &leaderID
	report.AddressedAt = &at
	return nil
}

func (r *lectureRepoStub) AttachFeedback(ctx context.Context, id, authorID, text string, rating int, at time.Time) (bool, error) {
	report, ok := r.reports[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	if report.FeedbackText != nil {
		return false, nil
	}
	report.FeedbackText = &text
	report.FeedbackRating = &rating
	report.FeedbackAuthorID = &authorID
	report.FeedbackAt = &at
	return true, nil
}

func (r *lectureRepoStub) CountByStatus(ctx context.Context, status models.LectureReportStatus) (int, error) {
	count := 0
	for _, report := range r.reports {
		if report.Status == status {
			count++
		}
	}
	return count, nil
}

var (
	lecturerActor  = Actor{ID: "lect-1", Role: models.RoleLecturer, FullName: "John Doe"}
	principalActor = Actor{ID: "prin-1", Role: models.RolePrincipalLecturer, FullName: "Jane Smith"}
	leaderActor    = Actor{ID: "lead-1", Role: models.RoleProgramLeader, FullName: "Ada Leader"}
	studentActor   = Actor{ID: "stud-1", Role: models.RoleStudent, FullName: "Sam Student"}
)

func validSubmitRequest() SubmitLectureReportRequest {
	return SubmitLectureReportRequest{
		ClassID:               "class-1",
		CourseID:              "course-1",
		DateOfLecture:         time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		WeekOfReporting:       6,
		TopicTaught:           "Normalization",
		TeachingMethods:       "lecture, lab",
		ActualStudentsPresent: 38,
	}
}

func TestLectureReportSubmitStartsSubmitted(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())

	report, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)
	assert.Equal(t, models.LectureReportSubmitted, report.Status)
	assert.Equal(t, lecturerActor.ID, report.LecturerID)
}

func TestLectureReportSubmitRequiresLecturer(t *testing.T) {
	svc := NewLectureReportService(newLectureRepoStub(), nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), studentActor, validSubmitRequest())
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestLectureReportSubmitMissingFields(t *testing.T) {
	svc := NewLectureReportService(newLectureRepoStub(), nil, zap.NewNop())

	req := validSubmitRequest()
	req.TopicTaught = ""
	req.ClassID = ""
	_, err := svc.Submit(context.Background(), lecturerActor, req)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "class_id")
	assert.Contains(t, appErr.Message, "topic_taught")
}

func TestLectureReportReviewThenAddress(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())
	report, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), principalActor, report.ID, RespondRequest{Response: "solid coverage"})
	require.NoError(t, err)
	assert.Equal(t, models.LectureReportReviewed, reviewed.Status)
	require.NotNil(t, reviewed.PrincipalResponse)
	assert.Equal(t, "solid coverage", *reviewed.PrincipalResponse)

	addressed, err := svc.Address(context.Background(), leaderActor, report.ID, RespondRequest{Response: "noted"})
	require.NoError(t, err)
	assert.Equal(t, models.LectureReportAddressed, addressed.Status)
}

func TestLectureReportAddressSkipsReview(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())
	report, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	addressed, err := svc.Address(context.Background(), leaderActor, report.ID, RespondRequest{Response: "fast-tracked"})
	require.NoError(t, err)
	assert.Equal(t, models.LectureReportAddressed, addressed.Status)
}

func TestLectureReportNoBackwardTransition(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())
	report, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	_, err = svc.Address(context.Background(), leaderActor, report.ID, RespondRequest{Response: "done"})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), principalActor, report.ID, RespondRequest{Response: "too late"})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "INVALID_TRANSITION", appErr.Code)
	assert.Equal(t, 422, appErr.Status)

	stored, err := repo.FindByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LectureReportAddressed, stored.Status)
	assert.Nil(t, stored.PrincipalResponse)
}

func TestLectureReportFeedbackFirstWriteWins(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())
	report, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	_, err = svc.AttachFeedback(context.Background(), principalActor, report.ID, FeedbackRequest{Feedback: "good pace", Rating: 4})
	require.NoError(t, err)

	second := Actor{ID: "prin-2", Role: models.RolePrincipalLecturer, FullName: "Other Principal"}
	_, err = svc.AttachFeedback(context.Background(), second, report.ID, FeedbackRequest{Feedback: "overwrite attempt", Rating: 1})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	stored, err := repo.FindByID(context.Background(), report.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FeedbackText)
	assert.Equal(t, "good pace", *stored.FeedbackText)
	assert.Equal(t, 4, *stored.FeedbackRating)
	assert.Equal(t, principalActor.ID, *stored.FeedbackAuthorID)
}

func TestLectureReportFeedbackRatingRange(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())
	report, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	_, err = svc.AttachFeedback(context.Background(), principalActor, report.ID, FeedbackRequest{Feedback: "x", Rating: 6})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestLectureReportGetVisibility(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())
	report, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	otherLecturer := Actor{ID: "lect-2", Role: models.RoleLecturer, FullName: "Mary Major"}
	_, err = svc.Get(context.Background(), otherLecturer, report.ID)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	_, err = svc.Get(context.Background(), principalActor, report.ID)
	assert.NoError(t, err)
}

func TestLectureReportGetNotFound(t *testing.T) {
	svc := NewLectureReportService(newLectureRepoStub(), nil, zap.NewNop())

	_, err := svc.Get(context.Background(), principalActor, "missing")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestLectureReportListScopedForLecturer(t *testing.T) {
	repo := newLectureRepoStub()
	svc := NewLectureReportService(repo, nil, zap.NewNop())
	_, err := svc.Submit(context.Background(), lecturerActor, validSubmitRequest())
	require.NoError(t, err)

	other := Actor{ID: "lect-2", Role: models.RoleLecturer, FullName: "Mary Major"}
	_, err = svc.Submit(context.Background(), other, validSubmitRequest())
	require.NoError(t, err)

	mine, _, err := svc.List(context.Background(), lecturerActor, ListLectureReportsRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, lecturerActor.ID, mine[0].LecturerID)

	all, _, err := svc.List(context.Background(), principalActor, ListLectureReportsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
