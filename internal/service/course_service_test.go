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

type courseRepoStub struct {
	courses map[string]*models.Course
}

func newCourseRepoStub() *courseRepoStub {
	return &courseRepoStub{courses: map[string]*models.Course{}}
}

func (r *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *course
	return &copied, nil
}

func (r *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var out []models.Course
	for _, course := range r.courses {
		if filter.Faculty != "" && course.Faculty != filter.Faculty {
			continue
		}
		out = append(out, *course)
	}
	return out, len(out), nil
}

func TestCourseCreateDefaultsActive(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(), nil, zap.NewNop())

	course, err := svc.Create(context.Background(), leaderActor, CreateCourseRequest{
		Code:    "DB101",
		Name:    "Database Systems",
		Credits: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "active", course.Status)
}

func TestCourseCreateRoleGate(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(), nil, zap.NewNop())

	req := CreateCourseRequest{Code: "DB101", Name: "Database Systems"}
	_, err := svc.Create(context.Background(), lecturerActor, req)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	manager := Actor{ID: "mgr-1", Role: models.RoleFacultyManager, FullName: "Fay Manager"}
	_, err = svc.Create(context.Background(), manager, req)
	assert.NoError(t, err)
}

func TestCourseCreateMissingFields(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), leaderActor, CreateCourseRequest{})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "code")
	assert.Contains(t, appErr.Message, "name")
}

func TestCourseGetMissing(t *testing.T) {
	svc := NewCourseService(newCourseRepoStub(), nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCourseListFiltersByFaculty(t *testing.T) {
	repo := newCourseRepoStub()
	svc := NewCourseService(repo, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), leaderActor, CreateCourseRequest{Code: "DB101", Name: "Database Systems", Faculty: "ICT"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), leaderActor, CreateCourseRequest{Code: "AC100", Name: "Accounting", Faculty: "Business"})
	require.NoError(t, err)

	courses, _, err := svc.List(context.Background(), ListCoursesRequest{Faculty: "ICT"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "DB101", courses[0].Code)
}
