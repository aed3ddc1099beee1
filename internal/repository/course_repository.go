package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-portal/reporting-api/internal/models"
)

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a new repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = "id, code, name, faculty, department, credits, description, status, created_at, updated_at"

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	query := `INSERT INTO courses (id, code, name, faculty, department, credits, description, status, created_at, updated_at)
VALUES (:id, :code, :name, :faculty, :department, :credits, :description, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID fetches a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1 LIMIT 1", courseColumns)
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, fmt.Errorf("find course %s: %w", id, err)
	}
	return &course, nil
}

// FindByName resolves a free-text course name to a course record.
func (r *CourseRepository) FindByName(ctx context.Context, name string) (*models.Course, error) {
	var course models.Course
	query := fmt.Sprintf("SELECT %s FROM courses WHERE name = $1 LIMIT 1", courseColumns)
	if err := r.db.GetContext(ctx, &course, query, name); err != nil {
		return nil, fmt.Errorf("find course by name: %w", err)
	}
	return &course, nil
}

// List returns courses per filter ordered by code.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	where := "1=1"
	args := []interface{}{}
	if filter.Faculty != "" {
		args = append(args, filter.Faculty)
		where += fmt.Sprintf(" AND faculty = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (code ILIKE $%d OR name ILIKE $%d)", len(args), len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}

	query := fmt.Sprintf("SELECT %s FROM courses WHERE %s ORDER BY code LIMIT %d OFFSET %d",
		courseColumns, where, size, (page-1)*size)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM courses WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// Count returns the total number of courses.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM courses"); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}
