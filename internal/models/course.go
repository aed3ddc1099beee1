package models

import "time"

// Course is reference data for a taught course.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Faculty     string    `db:"faculty" json:"faculty"`
	Department  string    `db:"department" json:"department"`
	Credits     int       `db:"credits" json:"credits"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	Faculty  string
	Search   string
	Page     int
	PageSize int
}
