package models

import "time"

// RatingScope selects which entity an average is computed over.
type RatingScope string

const (
	RatingScopeCourse   RatingScope = "course"
	RatingScopeLecturer RatingScope = "lecturer"
)

// Valid reports whether the scope is known.
func (s RatingScope) Valid() bool {
	return s == RatingScopeCourse || s == RatingScopeLecturer
}

// Rating is a student's rating of a course or lecturer.
type Rating struct {
	ID          string      `db:"id" json:"id"`
	CourseID    *string     `db:"course_id" json:"course_id,omitempty"`
	LecturerID  *string     `db:"lecturer_id" json:"lecturer_id,omitempty"`
	StudentID   string      `db:"student_id" json:"student_id"`
	RatingValue int         `db:"rating_value" json:"rating_value"`
	Comment     string      `db:"comment" json:"comment"`
	RatingType  RatingScope `db:"rating_type" json:"rating_type"`
	IsAnonymous bool        `db:"is_anonymous" json:"is_anonymous"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// ClassRating is a lecturer's self-rating of a class they teach.
// Unique per (class_id, lecturer_id); resubmission updates in place.
type ClassRating struct {
	ID         string    `db:"id" json:"id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	LecturerID string    `db:"lecturer_id" json:"lecturer_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comments   string    `db:"comments" json:"comments"`
	RatingDate time.Time `db:"rating_date" json:"rating_date"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// AverageRating is the aggregate over matching Rating rows. Average is 0 when
// Count is 0; it is never NaN.
type AverageRating struct {
	Scope   RatingScope `json:"scope"`
	ScopeID string      `json:"scope_id"`
	Average float64     `json:"average"`
	Count   int         `json:"count"`
}
