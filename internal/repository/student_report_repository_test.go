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

func newStudentReportMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return sqlxDB, mock, func() { _ = sqlxDB.Close() }
}

func TestStudentReportCreateKeepsNames(t *testing.T) {
	db, mock, cleanup := newStudentReportMock(t)
	defer cleanup()
	repo := NewStudentReportRepository(db)

	mock.ExpectExec("INSERT INTO student_reports").
		WillReturnResult(sqlmock.NewResult(0, 1))

	report := &models.StudentReport{
		StudentID:    "stud-1",
		LecturerName: "Dr. Unknown",
		CourseName:   "Ghost Course",
		IssueType:    "grading",
		UrgencyLevel: models.UrgencyMedium,
		Description:  "marks missing",
		DateOccurred: time.Now().UTC(),
		Status:       models.StudentReportPending,
	}
	require.NoError(t, repo.Create(context.Background(), report))
	assert.NotEmpty(t, report.ID)
	assert.Nil(t, report.LecturerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentReportSaveResponseRestamps(t *testing.T) {
	db, mock, cleanup := newStudentReportMock(t)
	defer cleanup()
	repo := NewStudentReportRepository(db)

	at := time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE student_reports").
		WithArgs("resolved", "marks released", "spoke with lecturer", "prin-1", at, "rep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveResponse(context.Background(), "rep-1", models.StudentReportResolved, "prin-1", "marks released", "spoke with lecturer", at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentReportListScopedByLecturerName(t *testing.T) {
	db, mock, cleanup := newStudentReportMock(t)
	defer cleanup()
	repo := NewStudentReportRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "student_id", "lecturer_name", "course_name", "status", "created_at", "updated_at"}).
		AddRow("rep-1", "stud-1", "John Doe", "Database Systems", "pending", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("lecturer_name = $1")).
		WithArgs("John Doe").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM student_reports")).
		WithArgs("John Doe").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	reports, total, err := repo.List(context.Background(), models.StudentReportFilter{LecturerName: "John Doe"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentReportCountByStatus(t *testing.T) {
	db, mock, cleanup := newStudentReportMock(t)
	defer cleanup()
	repo := NewStudentReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM student_reports WHERE status = $1")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByStatus(context.Background(), models.StudentReportPending)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
