package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luct-portal/reporting-api/internal/models"
)

func newRatingMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return sqlxDB, mock, func() { _ = sqlxDB.Close() }
}

func TestRatingCreate(t *testing.T) {
	db, mock, cleanup := newRatingMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectExec("INSERT INTO ratings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	courseID := "course-1"
	rating := &models.Rating{
		CourseID:    &courseID,
		StudentID:   "stud-1",
		RatingValue: 4,
		RatingType:  models.RatingScopeCourse,
	}
	require.NoError(t, repo.CreateRating(context.Background(), rating))
	assert.NotEmpty(t, rating.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAverageUsesCoalesce(t *testing.T) {
	db, mock, cleanup := newRatingMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(rating_value), 0)")).
		WithArgs("course-1", "course").
		WillReturnRows(sqlmock.NewRows([]string{"average", "count"}).AddRow(4.25, 8))

	avg, err := repo.AverageRating(context.Background(), models.RatingScopeCourse, "course-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.25, avg.Average, 0.0001)
	assert.Equal(t, 8, avg.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAverageEmptySet(t *testing.T) {
	db, mock, cleanup := newRatingMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(rating_value), 0)")).
		WithArgs("lect-9", "lecturer").
		WillReturnRows(sqlmock.NewRows([]string{"average", "count"}).AddRow(0.0, 0))

	avg, err := repo.AverageRating(context.Background(), models.RatingScopeLecturer, "lect-9")
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg.Average)
	assert.Equal(t, 0, avg.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingAverageScopesByColumn(t *testing.T) {
	db, mock, cleanup := newRatingMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("lecturer_id = $1")).
		WithArgs("lect-1", "lecturer").
		WillReturnRows(sqlmock.NewRows([]string{"average", "count"}).AddRow(3.5, 2))

	avg, err := repo.AverageRating(context.Background(), models.RatingScopeLecturer, "lect-1")
	require.NoError(t, err)
	assert.Equal(t, 2, avg.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRatingUpsert(t *testing.T) {
	db, mock, cleanup := newRatingMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (class_id, lecturer_id)")).
		WithArgs(sqlmock.AnyArg(), "class-1", "lect-1", 4, "steady progress", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("cr-1", now, now))

	rating := &models.ClassRating{
		ClassID:    "class-1",
		LecturerID: "lect-1",
		Rating:     4,
		Comments:   "steady progress",
		RatingDate: now,
	}
	require.NoError(t, repo.UpsertClassRating(context.Background(), rating))
	assert.Equal(t, "cr-1", rating.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRatingFind(t *testing.T) {
	db, mock, cleanup := newRatingMock(t)
	defer cleanup()
	repo := NewRatingRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "class_id", "lecturer_id", "rating", "comments", "rating_date", "created_at", "updated_at"}).
		AddRow("cr-1", "class-1", "lect-1", 5, "", now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_ratings WHERE class_id = $1 AND lecturer_id = $2")).
		WithArgs("class-1", "lect-1").
		WillReturnRows(rows)

	rating, err := repo.FindClassRating(context.Background(), "class-1", "lect-1")
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}
