package models

import "time"

// LectureReportStatus is the lifecycle state of a lecture report.
type LectureReportStatus string

const (
	LectureReportSubmitted LectureReportStatus = "submitted"
	LectureReportReviewed  LectureReportStatus = "reviewed"
	LectureReportAddressed LectureReportStatus = "addressed"
)

// LectureReport is a lecturer's weekly account of a delivered lecture.
// The authored fields (topic, methods, attendance, challenges) are immutable
// after submission; transitions only touch status, responses and timestamps.
type LectureReport struct {
	ID                    string              `db:"id" json:"id"`
	LecturerID            string              `db:"lecturer_id" json:"lecturer_id"`
	ClassID               string              `db:"class_id" json:"class_id"`
	CourseID              string              `db:"course_id" json:"course_id"`
	DateOfLecture         time.Time           `db:"date_of_lecture" json:"date_of_lecture"`
	WeekOfReporting       int                 `db:"week_of_reporting" json:"week_of_reporting"`
	TopicTaught           string              `db:"topic_taught" json:"topic_taught"`
	TeachingMethods       string              `db:"teaching_methods" json:"teaching_methods"`
	ActualStudentsPresent int                 `db:"actual_students_present" json:"actual_students_present"`
	ChallengesEncountered string              `db:"challenges_encountered" json:"challenges_encountered"`
	Status                LectureReportStatus `db:"status" json:"status"`

	// Feedback is a single principal lecturer evaluation; first write wins.
	FeedbackText     *string    `db:"feedback_text" json:"feedback_text,omitempty"`
	FeedbackRating   *int       `db:"feedback_rating" json:"feedback_rating,omitempty"`
	FeedbackAuthorID *string    `db:"feedback_author_id" json:"feedback_author_id,omitempty"`
	FeedbackAt       *time.Time `db:"feedback_at" json:"feedback_at,omitempty"`

	PrincipalResponse   *string    `db:"principal_response" json:"principal_response,omitempty"`
	PrincipalLecturerID *string    `db:"principal_lecturer_id" json:"principal_lecturer_id,omitempty"`
	LeaderResponse      *string    `db:"leader_response" json:"leader_response,omitempty"`
	ProgramLeaderID     *string    `db:"program_leader_id" json:"program_leader_id,omitempty"`
	ReviewedAt          *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	AddressedAt         *time.Time `db:"addressed_at" json:"addressed_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasFeedback reports whether a principal lecturer evaluation is attached.
func (r *LectureReport) HasFeedback() bool {
	return r.FeedbackText != nil
}

// LectureReportFilter narrows lecture report listings.
type LectureReportFilter struct {
	LecturerID string
	ClassID    string
	CourseID   string
	Status     *LectureReportStatus
	Page       int
	PageSize   int
}
