package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-portal/reporting-api/internal/models"
)

// LectureReportRepository manages persistence for lecture reports.
type LectureReportRepository struct {
	db *sqlx.DB
}

// NewLectureReportRepository constructs a new repository.
func NewLectureReportRepository(db *sqlx.DB) *LectureReportRepository {
	return &LectureReportRepository{db: db}
}

const lectureReportColumns = `id, lecturer_id, class_id, course_id, date_of_lecture, week_of_reporting,
topic_taught, teaching_methods, actual_students_present, challenges_encountered, status,
feedback_text, feedback_rating, feedback_author_id, feedback_at,
principal_response, principal_lecturer_id, leader_response, program_leader_id,
reviewed_at, addressed_at, created_at, updated_at`

// Create inserts a new lecture report.
func (r *LectureReportRepository) Create(ctx context.Context, report *models.LectureReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	query := `INSERT INTO lecture_reports (id, lecturer_id, class_id, course_id, date_of_lecture, week_of_reporting,
topic_taught, teaching_methods, actual_students_present, challenges_encountered, status, created_at, updated_at)
VALUES (:id, :lecturer_id, :class_id, :course_id, :date_of_lecture, :week_of_reporting,
:topic_taught, :teaching_methods, :actual_students_present, :challenges_encountered, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create lecture report: %w", err)
	}
	return nil
}

// FindByID fetches a single lecture report.
func (r *LectureReportRepository) FindByID(ctx context.Context, id string) (*models.LectureReport, error) {
	var report models.LectureReport
	query := fmt.Sprintf("SELECT %s FROM lecture_reports WHERE id = $1 LIMIT 1", lectureReportColumns)
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, fmt.Errorf("find lecture report %s: %w", id, err)
	}
	return &report, nil
}

// List returns lecture reports per provided filter, newest first.
func (r *LectureReportRepository) List(ctx context.Context, filter models.LectureReportFilter) ([]models.LectureReport, int, error) {
	where := "1=1"
	args := []interface{}{}
	if filter.LecturerID != "" {
		args = append(args, filter.LecturerID)
		where += fmt.Sprintf(" AND lecturer_id = $%d", len(args))
	}
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		where += fmt.Sprintf(" AND class_id = $%d", len(args))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		where += fmt.Sprintf(" AND course_id = $%d", len(args))
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

	query := fmt.Sprintf("SELECT %s FROM lecture_reports WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		lectureReportColumns, where, size, (page-1)*size)
	var reports []models.LectureReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lecture reports: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM lecture_reports WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lecture reports: %w", err)
	}
	return reports, total, nil
}

// MarkReviewed applies the submitted->reviewed transition. Only response and
// lifecycle columns change; the authored submission stays untouched.
func (r *LectureReportRepository) MarkReviewed(ctx context.Context, id, principalID, response string, at time.Time) error {
	query := `UPDATE lecture_reports
SET status = $1, principal_response = $2, principal_lecturer_id = $3, reviewed_at = $4, updated_at = $4
WHERE id = $5`
	if _, err := r.db.ExecContext(ctx, query, string(models.LectureReportReviewed), response, principalID, at, id); err != nil {
		return fmt.Errorf("mark lecture report reviewed: %w", err)
	}
	return nil
}

// MarkAddressed applies the transition into the addressed state.
func (r *LectureReportRepository) MarkAddressed(ctx context.Context, id, leaderID, response string, at time.Time) error {
	query := `UPDATE lecture_reports
SET status = $1, leader_response = $2, program_leader_id = $3, addressed_at = $4, updated_at = $4
WHERE id = $5`
	if _, err := r.db.ExecContext(ctx, query, string(models.LectureReportAddressed), response, leaderID, at, id); err != nil {
		return fmt.Errorf("mark lecture report addressed: %w", err)
	}
	return nil
}

// AttachFeedback writes the one-shot principal evaluation. The guard on
// feedback_text keeps the first write authoritative under concurrency; it
// returns false when feedback was already present.
func (r *LectureReportRepository) AttachFeedback(ctx context.Context, id, authorID, text string, rating int, at time.Time) (bool, error) {
	query := `UPDATE lecture_reports
SET feedback_text = $1, feedback_rating = $2, feedback_author_id = $3, feedback_at = $4, updated_at = $4
WHERE id = $5 AND feedback_text IS NULL`
	res, err := r.db.ExecContext(ctx, query, text, rating, authorID, at, id)
	if err != nil {
		return false, fmt.Errorf("attach feedback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("attach feedback result: %w", err)
	}
	return affected == 1, nil
}

// CountByStatus counts lecture reports currently in the given state.
func (r *LectureReportRepository) CountByStatus(ctx context.Context, status models.LectureReportStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM lecture_reports WHERE status = $1", string(status)); err != nil {
		return 0, fmt.Errorf("count lecture reports by status: %w", err)
	}
	return count, nil
}
