package models

import "time"

// PrincipalReportStatus is the state of a principal summary report.
type PrincipalReportStatus string

const (
	PrincipalReportDraft     PrincipalReportStatus = "draft"
	PrincipalReportSubmitted PrincipalReportStatus = "submitted"
)

// Valid reports whether the status is allowed at creation.
func (s PrincipalReportStatus) Valid() bool {
	return s == PrincipalReportDraft || s == PrincipalReportSubmitted
}

// PrincipalReportType categorizes a principal summary report.
type PrincipalReportType string

const (
	PrincipalReportWeeklySummary   PrincipalReportType = "weekly_summary"
	PrincipalReportIncidentSummary PrincipalReportType = "incident_summary"
	PrincipalReportCourseReview    PrincipalReportType = "course_review"
	PrincipalReportStaffConcern    PrincipalReportType = "staff_concern"
)

// Valid reports whether the report type is known.
func (t PrincipalReportType) Valid() bool {
	switch t {
	case PrincipalReportWeeklySummary, PrincipalReportIncidentSummary, PrincipalReportCourseReview, PrincipalReportStaffConcern:
		return true
	}
	return false
}

// PrincipalReport is authored by a principal lecturer for the program leader.
// Append-only after creation; the leader only reads it.
type PrincipalReport struct {
	ID                  string                `db:"id" json:"id"`
	PrincipalLecturerID string                `db:"principal_lecturer_id" json:"principal_lecturer_id"`
	ProgramLeaderID     *string               `db:"program_leader_id" json:"program_leader_id,omitempty"`
	ReportType          PrincipalReportType   `db:"report_type" json:"report_type"`
	Summary             string                `db:"summary" json:"summary"`
	Findings            string                `db:"findings" json:"findings"`
	Recommendations     string                `db:"recommendations" json:"recommendations"`
	FollowUpActions     string                `db:"follow_up_actions" json:"follow_up_actions"`
	Status              PrincipalReportStatus `db:"status" json:"status"`
	CreatedAt           time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time             `db:"updated_at" json:"updated_at"`
}
