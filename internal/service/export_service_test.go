package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
	"github.com/luct-portal/reporting-api/pkg/storage"
)

type exportCoursesStub struct {
	courses []models.Course
}

func (s *exportCoursesStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	if filter.Page > 1 {
		return nil, len(s.courses), nil
	}
	return s.courses, len(s.courses), nil
}

type exportUsersStub struct{}

func (s *exportUsersStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	return nil, 0, nil
}

type exportClassesStub struct{}

func (s *exportClassesStub) List(ctx context.Context) ([]models.ClassDetail, error) {
	return nil, nil
}

type exportLectureReportsStub struct{}

func (s *exportLectureReportsStub) List(ctx context.Context, filter models.LectureReportFilter) ([]models.LectureReport, int, error) {
	return nil, 0, nil
}

type exportStudentReportsStub struct{}

func (s *exportStudentReportsStub) List(ctx context.Context, filter models.StudentReportFilter) ([]models.StudentReport, int, error) {
	return nil, 0, nil
}

func newExportServiceForTest(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-signing-secret", time.Hour)
	sources := ExportSources{
		Courses: &exportCoursesStub{courses: []models.Course{
			{Code: "DB101", Name: "Database Systems", Faculty: "ICT", Credits: 12, Status: "active"},
			{Code: "WD201", Name: "Web Development", Faculty: "ICT", Credits: 10, Status: "active"},
		}},
		Users:          &exportUsersStub{},
		Classes:        &exportClassesStub{},
		LectureReports: &exportLectureReportsStub{},
		StudentReports: &exportStudentReportsStub{},
	}
	return NewExportService(sources, store, signer, ExportConfig{Workers: 1}, zap.NewNop())
}

func TestExportEnqueueForbidsStudents(t *testing.T) {
	svc := newExportServiceForTest(t)

	_, err := svc.Enqueue(context.Background(), studentActor, models.ExportCourses, models.ExportFormatCSV)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestExportEnqueueValidatesKindAndFormat(t *testing.T) {
	svc := newExportServiceForTest(t)
	svc.Start(context.Background())
	defer svc.Stop()

	_, err := svc.Enqueue(context.Background(), leaderActor, models.ExportKind("grades"), models.ExportFormatCSV)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	_, err = svc.Enqueue(context.Background(), leaderActor, models.ExportCourses, models.ExportFormat("xlsx"))
	appErr = appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestExportCSVRoundTrip(t *testing.T) {
	svc := newExportServiceForTest(t)
	svc.Start(context.Background())
	defer svc.Stop()

	job, err := svc.Enqueue(context.Background(), leaderActor, models.ExportCourses, models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, models.ExportQueued, job.Status)

	require.Eventually(t, func() bool {
		current, err := svc.Status(job.ID)
		return err == nil && current.Status == models.ExportCompleted
	}, 5*time.Second, 20*time.Millisecond)

	completed, err := svc.Status(job.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, completed.FilePath)
	require.NotEmpty(t, completed.DownloadURL)
	assert.Contains(t, completed.DownloadURL, "/exports/download/")

	token := completed.DownloadURL[strings.LastIndex(completed.DownloadURL, "/")+1:]
	file, err := svc.Open(token)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "DB101")
	assert.Contains(t, text, "Web Development")
}

func TestExportStatusUnknownJob(t *testing.T) {
	svc := newExportServiceForTest(t)

	_, err := svc.Status("missing")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestExportOpenRejectsBadToken(t *testing.T) {
	svc := newExportServiceForTest(t)

	_, err := svc.Open("tampered-token")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}
