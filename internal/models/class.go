package models

import "time"

// Class is a scheduled section of a course. LecturerID is nullable: a class
// may be unassigned. AssignedBy records the program leader who assigned it.
type Class struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CourseID     string    `db:"course_id" json:"course_id"`
	LecturerID   *string   `db:"lecturer_id" json:"lecturer_id,omitempty"`
	AssignedBy   *string   `db:"assigned_by" json:"assigned_by,omitempty"`
	ScheduleDay  string    `db:"schedule_day" json:"schedule_day"`
	ScheduleTime string    `db:"schedule_time" json:"schedule_time"`
	Venue        string    `db:"venue" json:"venue"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	Semester     string    `db:"semester" json:"semester"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with joined course and lecturer names.
type ClassDetail struct {
	Class
	CourseName   string  `db:"course_name" json:"course_name"`
	CourseCode   string  `db:"course_code" json:"course_code"`
	LecturerName *string `db:"lecturer_name" json:"lecturer_name,omitempty"`
}
