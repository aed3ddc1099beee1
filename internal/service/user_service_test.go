package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type userRepoStub struct {
	users map[string]*models.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: map[string]*models.User{}}
}

func (r *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		out = append(out, *user)
	}
	return out, len(out), nil
}

func validRegisterRequest() RegisterUserRequest {
	return RegisterUserRequest{
		Email:     "nina.ngo@luct.ac.ls",
		Password:  "long-enough-pass",
		FirstName: "Nina",
		LastName:  "Ngo",
		Role:      string(models.RoleStudent),
	}
}

func TestUserRegisterHashesPassword(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, zap.NewNop())

	user, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough-pass")))
}

func TestUserRegisterDuplicateEmail(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegisterRequest())
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestUserRegisterUnknownRole(t *testing.T) {
	svc := NewUserService(newUserRepoStub(), nil, zap.NewNop())

	req := validRegisterRequest()
	req.Role = "dean"
	_, err := svc.Register(context.Background(), req)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserRegisterShortPassword(t *testing.T) {
	svc := NewUserService(newUserRepoStub(), nil, zap.NewNop())

	req := validRegisterRequest()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserListForbidsStudents(t *testing.T) {
	svc := NewUserService(newUserRepoStub(), nil, zap.NewNop())

	_, _, err := svc.List(context.Background(), studentActor, ListUsersRequest{})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestUserListFiltersByRole(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	second := validRegisterRequest()
	second.Email = "john.doe@luct.ac.ls"
	second.Role = string(models.RoleLecturer)
	_, err = svc.Register(context.Background(), second)
	require.NoError(t, err)

	lecturers, pagination, err := svc.List(context.Background(), leaderActor, ListUsersRequest{Role: string(models.RoleLecturer)})
	require.NoError(t, err)
	require.Len(t, lecturers, 1)
	assert.Equal(t, models.RoleLecturer, lecturers[0].Role)
	assert.Equal(t, 1, pagination.TotalCount)
}
