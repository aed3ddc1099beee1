package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-portal/reporting-api/internal/models"
)

// StudentReportRepository manages persistence for student issue reports.
type StudentReportRepository struct {
	db *sqlx.DB
}

// NewStudentReportRepository constructs a new repository.
func NewStudentReportRepository(db *sqlx.DB) *StudentReportRepository {
	return &StudentReportRepository{db: db}
}

const studentReportColumns = `id, student_id, lecturer_name, lecturer_id, course_name, course_id,
issue_type, urgency_level, description, date_occurred, status,
principal_response, action_taken, principal_lecturer_id, responded_at, created_at, updated_at`

// Create inserts a new student report.
func (r *StudentReportRepository) Create(ctx context.Context, report *models.StudentReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	query := `INSERT INTO student_reports (id, student_id, lecturer_name, lecturer_id, course_name, course_id,
issue_type, urgency_level, description, date_occurred, status, created_at, updated_at)
VALUES (:id, :student_id, :lecturer_name, :lecturer_id, :course_name, :course_id,
:issue_type, :urgency_level, :description, :date_occurred, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create student report: %w", err)
	}
	return nil
}

// FindByID fetches a single student report.
func (r *StudentReportRepository) FindByID(ctx context.Context, id string) (*models.StudentReport, error) {
	var report models.StudentReport
	query := fmt.Sprintf("SELECT %s FROM student_reports WHERE id = $1 LIMIT 1", studentReportColumns)
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, fmt.Errorf("find student report %s: %w", id, err)
	}
	return &report, nil
}

// List returns student reports per provided filter, newest first.
func (r *StudentReportRepository) List(ctx context.Context, filter models.StudentReportFilter) ([]models.StudentReport, int, error) {
	where := "1=1"
	args := []interface{}{}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		where += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if filter.LecturerName != "" {
		args = append(args, filter.LecturerName)
		where += fmt.Sprintf(" AND lecturer_name = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}

	query := fmt.Sprintf("SELECT %s FROM student_reports WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		studentReportColumns, where, size, (page-1)*size)
	var reports []models.StudentReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list student reports: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM student_reports WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count student reports: %w", err)
	}
	return reports, total, nil
}

// SaveResponse records a principal lecturer response. Every call rewrites the
// response columns and stamps responded_at; the later write persists.
func (r *StudentReportRepository) SaveResponse(ctx context.Context, id string, status models.StudentReportStatus, principalID, response, actionTaken string, at time.Time) error {
	query := `UPDATE student_reports
SET status = $1, principal_response = $2, action_taken = $3, principal_lecturer_id = $4, responded_at = $5, updated_at = $5
WHERE id = $6`
	if _, err := r.db.ExecContext(ctx, query, string(status), response, actionTaken, principalID, at, id); err != nil {
		return fmt.Errorf("save student report response: %w", err)
	}
	return nil
}

// CountByStatus counts student reports currently in the given state.
func (r *StudentReportRepository) CountByStatus(ctx context.Context, status models.StudentReportStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM student_reports WHERE status = $1", string(status)); err != nil {
		return 0, fmt.Errorf("count student reports by status: %w", err)
	}
	return count, nil
}
