package models

import "time"

// StudentReportStatus is the lifecycle state of a student issue report.
type StudentReportStatus string

const (
	StudentReportPending    StudentReportStatus = "pending"
	StudentReportInProgress StudentReportStatus = "in_progress"
	StudentReportResolved   StudentReportStatus = "resolved"
)

// Valid reports whether the status is a known student report state.
func (s StudentReportStatus) Valid() bool {
	switch s {
	case StudentReportPending, StudentReportInProgress, StudentReportResolved:
		return true
	}
	return false
}

// UrgencyLevel grades how pressing a student issue is.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
	UrgencyUrgent UrgencyLevel = "urgent"
)

// Valid reports whether the urgency level is known.
func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// StudentReport is an issue a student raises about a lecturer or course.
// Lecturer and course are referenced by name as typed by the student; the
// resolved ids are stored alongside when a match exists, so later identity
// changes do not break visibility matching.
type StudentReport struct {
	ID           string  `db:"id" json:"id"`
	StudentID    string  `db:"student_id" json:"student_id"`
	LecturerName string  `db:"lecturer_name" json:"lecturer_name"`
	LecturerID   *string `db:"lecturer_id" json:"lecturer_id,omitempty"`
	CourseName   string  `db:"course_name" json:"course_name"`
	CourseID     *string `db:"course_id" json:"course_id,omitempty"`

	IssueType    string              `db:"issue_type" json:"issue_type"`
	UrgencyLevel UrgencyLevel        `db:"urgency_level" json:"urgency_level"`
	Description  string              `db:"description" json:"description"`
	DateOccurred time.Time           `db:"date_occurred" json:"date_occurred"`
	Status       StudentReportStatus `db:"status" json:"status"`

	PrincipalResponse   *string    `db:"principal_response" json:"principal_response,omitempty"`
	ActionTaken         *string    `db:"action_taken" json:"action_taken,omitempty"`
	PrincipalLecturerID *string    `db:"principal_lecturer_id" json:"principal_lecturer_id,omitempty"`
	RespondedAt         *time.Time `db:"responded_at" json:"responded_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentReportFilter narrows student report listings.
type StudentReportFilter struct {
	StudentID    string
	LecturerName string
	Status       *StudentReportStatus
	Page         int
	PageSize     int
}
