package models

import "time"

// Monitoring tracks a student's attendance and performance for a course.
type Monitoring struct {
	ID                   string    `db:"id" json:"id"`
	StudentID            string    `db:"student_id" json:"student_id"`
	CourseID             string    `db:"course_id" json:"course_id"`
	LecturerID           string    `db:"lecturer_id" json:"lecturer_id"`
	AttendancePercentage float64   `db:"attendance_percentage" json:"attendance_percentage"`
	PerformanceRating    string    `db:"performance_rating" json:"performance_rating"`
	OverallGrade         *string   `db:"overall_grade" json:"overall_grade,omitempty"`
	Notes                string    `db:"notes" json:"notes"`
	MonitoringDate       time.Time `db:"monitoring_date" json:"monitoring_date"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// PerformanceBucket is a grouped count of monitoring rows per rating.
type PerformanceBucket struct {
	PerformanceRating string `db:"performance_rating" json:"performance_rating"`
	Count             int    `db:"count" json:"count"`
}

// AttendanceStats summarizes monitoring rows for one student.
type AttendanceStats struct {
	StudentID        string              `json:"student_id"`
	AvgAttendance    float64             `json:"avg_attendance"`
	PerformanceStats []PerformanceBucket `json:"performance_stats"`
}
