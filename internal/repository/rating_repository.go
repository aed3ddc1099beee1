package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-portal/reporting-api/internal/models"
)

// RatingRepository manages student ratings and lecturer class ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs a new repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// CreateRating inserts a student rating of a course or lecturer.
func (r *RatingRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	rating.CreatedAt = time.Now().UTC()
	query := `INSERT INTO ratings (id, course_id, lecturer_id, student_id, rating_value, comment, rating_type, is_anonymous, created_at)
VALUES (:id, :course_id, :lecturer_id, :student_id, :rating_value, :comment, :rating_type, :is_anonymous, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// ListRatings returns ratings for the given scope entity, newest first.
func (r *RatingRepository) ListRatings(ctx context.Context, scope models.RatingScope, scopeID string) ([]models.Rating, error) {
	column := "course_id"
	if scope == models.RatingScopeLecturer {
		column = "lecturer_id"
	}
	query := fmt.Sprintf(`SELECT id, course_id, lecturer_id, student_id, rating_value, comment, rating_type, is_anonymous, created_at
FROM ratings WHERE %s = $1 AND rating_type = $2 ORDER BY created_at DESC`, column)
	var ratings []models.Rating
	if err := r.db.SelectContext(ctx, &ratings, query, scopeID, string(scope)); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// AverageRating computes the mean rating for a course or lecturer. COALESCE
// keeps the average at 0 for an empty match set.
func (r *RatingRepository) AverageRating(ctx context.Context, scope models.RatingScope, scopeID string) (*models.AverageRating, error) {
	column := "course_id"
	if scope == models.RatingScopeLecturer {
		column = "lecturer_id"
	}
	query := fmt.Sprintf(`SELECT COALESCE(AVG(rating_value), 0) AS average, COUNT(*) AS count
FROM ratings WHERE %s = $1 AND rating_type = $2`, column)
	result := models.AverageRating{Scope: scope, ScopeID: scopeID}
	if err := r.db.QueryRowxContext(ctx, query, scopeID, string(scope)).Scan(&result.Average, &result.Count); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	return &result, nil
}

// UpsertClassRating inserts or updates a lecturer's class self-rating keyed by
// (class_id, lecturer_id). ON CONFLICT makes the check-then-write atomic, so
// concurrent submissions from the same lecturer never produce duplicate rows.
func (r *RatingRepository) UpsertClassRating(ctx context.Context, rating *models.ClassRating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	query := `INSERT INTO class_ratings (id, class_id, lecturer_id, rating, comments, rating_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (class_id, lecturer_id)
DO UPDATE SET rating = EXCLUDED.rating, comments = EXCLUDED.comments, rating_date = EXCLUDED.rating_date, updated_at = EXCLUDED.updated_at
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, rating.ID, rating.ClassID, rating.LecturerID, rating.Rating, rating.Comments, rating.RatingDate, now)
	if err := row.Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt); err != nil {
		return fmt.Errorf("upsert class rating: %w", err)
	}
	return nil
}

// FindClassRating fetches the rating for one (class, lecturer) pair.
func (r *RatingRepository) FindClassRating(ctx context.Context, classID, lecturerID string) (*models.ClassRating, error) {
	var rating models.ClassRating
	query := `SELECT id, class_id, lecturer_id, rating, comments, rating_date, created_at, updated_at
FROM class_ratings WHERE class_id = $1 AND lecturer_id = $2 LIMIT 1`
	if err := r.db.GetContext(ctx, &rating, query, classID, lecturerID); err != nil {
		return nil, fmt.Errorf("find class rating: %w", err)
	}
	return &rating, nil
}
