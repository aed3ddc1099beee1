package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type ratingRepository interface {
	CreateRating(ctx context.Context, rating *models.Rating) error
	ListRatings(ctx context.Context, scope models.RatingScope, scopeID string) ([]models.Rating, error)
	AverageRating(ctx context.Context, scope models.RatingScope, scopeID string) (*models.AverageRating, error)
	UpsertClassRating(ctx context.Context, rating *models.ClassRating) error
	FindClassRating(ctx context.Context, classID, lecturerID string) (*models.ClassRating, error)
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// RatingService covers student ratings of courses and lecturers plus lecturer
// self-ratings of their classes.
type RatingService struct {
	repo      ratingRepository
	classes   classFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRatingService constructs the service.
func NewRatingService(repo ratingRepository, classes classFinder, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{repo: repo, classes: classes, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SubmitRatingRequest describes a student rating of a course or lecturer.
type SubmitRatingRequest struct {
	CourseID    string `json:"course_id"`
	LecturerID  string `json:"lecturer_id"`
	RatingValue int    `json:"rating_value" validate:"required"`
	Comment     string `json:"comment"`
	RatingType  string `json:"rating_type" validate:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// RateClassRequest describes a lecturer's self-rating of one of their
// classes. RatingDate is optional; when absent the rating is dated now.
type RateClassRequest struct {
	ClassID    string    `json:"class_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required"`
	Comments   string    `json:"comments"`
	RatingDate time.Time `json:"rating_date"`
}

// Submit stores a student rating. Each submission is a fresh row; averages
// simply include all of them.
func (s *RatingService) Submit(ctx context.Context, actor Actor, req SubmitRatingRequest) (*models.Rating, error) {
	if actor.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students submit ratings")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := validateRating(req.RatingValue); err != nil {
		return nil, err
	}
	scope := models.RatingScope(req.RatingType)
	if !scope.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rating_type must be course or lecturer")
	}
	if scope == models.RatingScopeCourse && req.CourseID == "" {
		return nil, appErrors.MissingFields("course_id")
	}
	if scope == models.RatingScopeLecturer && req.LecturerID == "" {
		return nil, appErrors.MissingFields("lecturer_id")
	}

	rating := &models.Rating{
		StudentID:   actor.ID,
		RatingValue: req.RatingValue,
		Comment:     req.Comment,
		RatingType:  scope,
		IsAnonymous: req.IsAnonymous,
	}
	if req.CourseID != "" {
		rating.CourseID = &req.CourseID
	}
	if req.LecturerID != "" {
		rating.LecturerID = &req.LecturerID
	}
	if err := s.repo.CreateRating(ctx, rating); err != nil {
		return nil, storeError(err, "rating not found")
	}
	s.logger.Info("rating submitted",
		zap.String("rating_id", rating.ID),
		zap.String("scope", string(scope)),
		zap.Int("value", req.RatingValue))
	return rating, nil
}

// List returns all ratings for a course or lecturer.
func (s *RatingService) List(ctx context.Context, scope models.RatingScope, scopeID string) ([]models.Rating, error) {
	if !scope.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scope must be course or lecturer")
	}
	ratings, err := s.repo.ListRatings(ctx, scope, scopeID)
	if err != nil {
		return nil, storeError(err, "ratings not found")
	}
	return ratings, nil
}

// Average computes the mean rating for a course or lecturer. With no ratings
// it returns average 0 and count 0, never an error.
func (s *RatingService) Average(ctx context.Context, scope models.RatingScope, scopeID string) (*models.AverageRating, error) {
	if !scope.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scope must be course or lecturer")
	}
	avg, err := s.repo.AverageRating(ctx, scope, scopeID)
	if err != nil {
		return nil, storeError(err, "ratings not found")
	}
	return avg, nil
}

// RateClass upserts a lecturer's rating of their own class. One row per
// (class, lecturer); resubmitting replaces the value and comments in place.
func (s *RatingService) RateClass(ctx context.Context, actor Actor, req RateClassRequest) (*models.ClassRating, error) {
	if actor.Role != models.RoleLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only lecturers rate classes")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		return nil, storeError(err, "class not found")
	}
	if class.LecturerID == nil || *class.LecturerID != actor.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "lecturers may only rate classes assigned to them")
	}

	ratingDate := req.RatingDate
	if ratingDate.IsZero() {
		ratingDate = s.now()
	}
	rating := &models.ClassRating{
		ClassID:    req.ClassID,
		LecturerID: actor.ID,
		Rating:     req.Rating,
		Comments:   req.Comments,
		RatingDate: ratingDate,
	}
	if err := s.repo.UpsertClassRating(ctx, rating); err != nil {
		return nil, storeError(err, "class rating not found")
	}
	s.logger.Info("class rated",
		zap.String("class_id", req.ClassID),
		zap.String("lecturer_id", actor.ID),
		zap.Int("rating", req.Rating))
	return rating, nil
}

// ClassRating fetches the lecturer's stored rating for a class, if any.
func (s *RatingService) ClassRating(ctx context.Context, actor Actor, classID string) (*models.ClassRating, error) {
	rating, err := s.repo.FindClassRating(ctx, classID, actor.ID)
	if err != nil {
		return nil, storeError(err, "class rating not found")
	}
	return rating, nil
}
