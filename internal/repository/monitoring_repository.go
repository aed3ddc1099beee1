package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-portal/reporting-api/internal/models"
)

// MonitoringRepository manages student monitoring records.
type MonitoringRepository struct {
	db *sqlx.DB
}

// NewMonitoringRepository constructs a new repository.
func NewMonitoringRepository(db *sqlx.DB) *MonitoringRepository {
	return &MonitoringRepository{db: db}
}

const monitoringColumns = `id, student_id, course_id, lecturer_id, attendance_percentage,
performance_rating, overall_grade, notes, monitoring_date, created_at, updated_at`

// Create inserts a new monitoring record.
func (r *MonitoringRepository) Create(ctx context.Context, record *models.Monitoring) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	query := `INSERT INTO monitoring (id, student_id, course_id, lecturer_id, attendance_percentage,
performance_rating, overall_grade, notes, monitoring_date, created_at, updated_at)
VALUES (:id, :student_id, :course_id, :lecturer_id, :attendance_percentage,
:performance_rating, :overall_grade, :notes, :monitoring_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create monitoring record: %w", err)
	}
	return nil
}

// Update modifies an existing monitoring record.
func (r *MonitoringRepository) Update(ctx context.Context, record *models.Monitoring) error {
	record.UpdatedAt = time.Now().UTC()
	query := `UPDATE monitoring SET attendance_percentage = :attendance_percentage, performance_rating = :performance_rating,
overall_grade = :overall_grade, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update monitoring record: %w", err)
	}
	return nil
}

// ListByStudent returns monitoring rows for a student, newest first.
func (r *MonitoringRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Monitoring, error) {
	query := fmt.Sprintf("SELECT %s FROM monitoring WHERE student_id = $1 ORDER BY monitoring_date DESC", monitoringColumns)
	var records []models.Monitoring
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list monitoring by student: %w", err)
	}
	return records, nil
}

// ListByCourse returns monitoring rows for a course, newest first.
func (r *MonitoringRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Monitoring, error) {
	query := fmt.Sprintf("SELECT %s FROM monitoring WHERE course_id = $1 ORDER BY monitoring_date DESC", monitoringColumns)
	var records []models.Monitoring
	if err := r.db.SelectContext(ctx, &records, query, courseID); err != nil {
		return nil, fmt.Errorf("list monitoring by course: %w", err)
	}
	return records, nil
}

// AverageAttendance computes the mean attendance percentage for a student.
func (r *MonitoringRepository) AverageAttendance(ctx context.Context, studentID string) (float64, error) {
	var avg float64
	query := "SELECT COALESCE(AVG(attendance_percentage), 0) FROM monitoring WHERE student_id = $1"
	if err := r.db.GetContext(ctx, &avg, query, studentID); err != nil {
		return 0, fmt.Errorf("average attendance: %w", err)
	}
	return avg, nil
}

// PerformanceBuckets groups monitoring rows by performance rating.
func (r *MonitoringRepository) PerformanceBuckets(ctx context.Context, studentID string) ([]models.PerformanceBucket, error) {
	query := `SELECT performance_rating, COUNT(*) AS count FROM monitoring
WHERE student_id = $1 GROUP BY performance_rating`
	var buckets []models.PerformanceBucket
	if err := r.db.SelectContext(ctx, &buckets, query, studentID); err != nil {
		return nil, fmt.Errorf("performance buckets: %w", err)
	}
	return buckets, nil
}
