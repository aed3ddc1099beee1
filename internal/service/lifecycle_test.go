package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

func TestLectureTransitionTable(t *testing.T) {
	cases := []struct {
		from  models.LectureReportStatus
		to    models.LectureReportStatus
		legal bool
	}{
		{models.LectureReportSubmitted, models.LectureReportReviewed, true},
		{models.LectureReportSubmitted, models.LectureReportAddressed, true},
		{models.LectureReportReviewed, models.LectureReportAddressed, true},
		{models.LectureReportReviewed, models.LectureReportSubmitted, false},
		{models.LectureReportAddressed, models.LectureReportReviewed, false},
		{models.LectureReportAddressed, models.LectureReportSubmitted, false},
	}
	for _, tc := range cases {
		err := validateLectureTransition(tc.from, tc.to)
		if tc.legal {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
			continue
		}
		appErr := appErrors.FromError(err)
		require.NotNil(t, appErr, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, "INVALID_TRANSITION", appErr.Code)
	}
}

func TestValidateRatingBounds(t *testing.T) {
	for _, value := range []int{1, 2, 3, 4, 5} {
		assert.NoError(t, validateRating(value))
	}
	for _, value := range []int{0, -1, 6, 100} {
		appErr := appErrors.FromError(validateRating(value))
		require.NotNil(t, appErr, "rating %d", value)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestRoleCapabilityTable(t *testing.T) {
	assert.True(t, models.RoleStudent.CanView(models.FamilyStudentReports))
	assert.False(t, models.RoleStudent.CanView(models.FamilyLectureReports))
	assert.True(t, models.RoleLecturer.CanView(models.FamilyLectureReports))
	assert.False(t, models.RoleLecturer.CanRespondTo(models.FamilyLectureReports))
	assert.True(t, models.RolePrincipalLecturer.CanRespondTo(models.FamilyStudentReports))
	assert.True(t, models.RoleProgramLeader.CanView(models.FamilyPrincipalReports))
	assert.False(t, models.RoleFacultyManager.CanView(models.FamilyLectureReports))
	assert.True(t, models.RoleFacultyManager.Capabilities().RollupsOnly)
}
