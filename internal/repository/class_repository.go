package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-portal/reporting-api/internal/models"
)

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, name, course_id, lecturer_id, assigned_by, schedule_day, schedule_time,
venue, academic_year, semester, created_at, updated_at`

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	query := `INSERT INTO classes (id, name, course_id, lecturer_id, assigned_by, schedule_day, schedule_time,
venue, academic_year, semester, created_at, updated_at)
VALUES (:id, :name, :course_id, :lecturer_id, :assigned_by, :schedule_day, :schedule_time,
:venue, :academic_year, :semester, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// FindByID fetches a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1 LIMIT 1", classColumns)
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, fmt.Errorf("find class %s: %w", id, err)
	}
	return &class, nil
}

// List returns classes with joined course and lecturer names.
func (r *ClassRepository) List(ctx context.Context) ([]models.ClassDetail, error) {
	query := `SELECT c.id, c.name, c.course_id, c.lecturer_id, c.assigned_by, c.schedule_day, c.schedule_time,
c.venue, c.academic_year, c.semester, c.created_at, c.updated_at,
co.name AS course_name, co.code AS course_code,
CASE WHEN u.id IS NULL THEN NULL ELSE CONCAT(u.first_name, ' ', u.last_name) END AS lecturer_name
FROM classes c
LEFT JOIN courses co ON c.course_id = co.id
LEFT JOIN users u ON c.lecturer_id = u.id
ORDER BY c.name`
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// AssignLecturer sets the lecturer for a class, recording which program
// leader made the assignment. A nil lecturerID unassigns the class.
func (r *ClassRepository) AssignLecturer(ctx context.Context, classID string, lecturerID *string, assignedBy string) error {
	query := `UPDATE classes SET lecturer_id = $1, assigned_by = $2, updated_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, lecturerID, assignedBy, time.Now().UTC(), classID); err != nil {
		return fmt.Errorf("assign lecturer: %w", err)
	}
	return nil
}

// Delete removes a class. Reports referencing it are not cascade-deleted;
// they keep the historical class id.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// Count returns the total number of classes.
func (r *ClassRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM classes"); err != nil {
		return 0, fmt.Errorf("count classes: %w", err)
	}
	return count, nil
}
