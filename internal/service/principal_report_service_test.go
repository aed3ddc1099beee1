package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type principalRepoStub struct {
	reports map[string]*models.PrincipalReport
}

func newPrincipalRepoStub() *principalRepoStub {
	return &principalRepoStub{reports: map[string]*models.PrincipalReport{}}
}

func (r *principalRepoStub) Create(ctx context.Context, report *models.PrincipalReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

func (r *principalRepoStub) FindByID(ctx context.Context, id string) (*models.PrincipalReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *report
	return &copied, nil
}

func (r *principalRepoStub) List(ctx context.Context, principalLecturerID string) ([]models.PrincipalReport, error) {
	var out []models.PrincipalReport
	for _, report := range r.reports {
		if principalLecturerID != "" && report.PrincipalLecturerID != principalLecturerID {
			continue
		}
		out = append(out, *report)
	}
	return out, nil
}

func (r *principalRepoStub) CountByStatus(ctx context.Context, status models.PrincipalReportStatus) (int, error) {
	count := 0
	for _, report := range r.reports {
		if report.Status == status {
			count++
		}
	}
	return count, nil
}

func validPrincipalReportRequest() CreatePrincipalReportRequest {
	return CreatePrincipalReportRequest{
		ReportType: "weekly_summary",
		Summary:    "teaching quality steady across the stream",
		Findings:   "attendance dipped in week 6",
	}
}

func TestPrincipalReportCreateDefaultsToDraft(t *testing.T) {
	svc := NewPrincipalReportService(newPrincipalRepoStub(), nil, zap.NewNop())

	report, err := svc.Create(context.Background(), principalActor, validPrincipalReportRequest())
	require.NoError(t, err)
	assert.Equal(t, models.PrincipalReportDraft, report.Status)
	assert.Equal(t, principalActor.ID, report.PrincipalLecturerID)
	assert.Nil(t, report.ProgramLeaderID)
}

func TestPrincipalReportCreateRequiresPrincipal(t *testing.T) {
	svc := NewPrincipalReportService(newPrincipalRepoStub(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), leaderActor, validPrincipalReportRequest())
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestPrincipalReportCreateRejectsUnknownType(t *testing.T) {
	svc := NewPrincipalReportService(newPrincipalRepoStub(), nil, zap.NewNop())

	req := validPrincipalReportRequest()
	req.ReportType = "decennial"
	_, err := svc.Create(context.Background(), principalActor, req)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestPrincipalReportVisibility(t *testing.T) {
	repo := newPrincipalRepoStub()
	svc := NewPrincipalReportService(repo, nil, zap.NewNop())
	report, err := svc.Create(context.Background(), principalActor, validPrincipalReportRequest())
	require.NoError(t, err)

	otherPrincipal := Actor{ID: "prin-2", Role: models.RolePrincipalLecturer, FullName: "Peter Prince"}
	_, err = svc.Get(context.Background(), otherPrincipal, report.ID)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	got, err := svc.Get(context.Background(), leaderActor, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
}

func TestPrincipalReportListScoping(t *testing.T) {
	repo := newPrincipalRepoStub()
	svc := NewPrincipalReportService(repo, nil, zap.NewNop())
	_, err := svc.Create(context.Background(), principalActor, validPrincipalReportRequest())
	require.NoError(t, err)

	otherPrincipal := Actor{ID: "prin-2", Role: models.RolePrincipalLecturer, FullName: "Peter Prince"}
	_, err = svc.Create(context.Background(), otherPrincipal, validPrincipalReportRequest())
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), principalActor)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, principalActor.ID, mine[0].PrincipalLecturerID)

	all, err := svc.List(context.Background(), leaderActor)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(context.Background(), studentActor)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestPrincipalReportPendingCountsDrafts(t *testing.T) {
	repo := newPrincipalRepoStub()
	svc := NewPrincipalReportService(repo, nil, zap.NewNop())
	_, err := svc.Create(context.Background(), principalActor, validPrincipalReportRequest())
	require.NoError(t, err)

	submitted := validPrincipalReportRequest()
	submitted.Status = string(models.PrincipalReportSubmitted)
	_, err = svc.Create(context.Background(), principalActor, submitted)
	require.NoError(t, err)

	count, err := svc.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
