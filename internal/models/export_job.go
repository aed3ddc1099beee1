package models

import "time"

// ExportKind enumerates the datasets that can be exported.
type ExportKind string

const (
	ExportCourses        ExportKind = "courses"
	ExportUsers          ExportKind = "users"
	ExportClasses        ExportKind = "classes"
	ExportLectureReports ExportKind = "lecture_reports"
	ExportStudentReports ExportKind = "student_reports"
)

// Valid reports whether the export kind is known.
func (k ExportKind) Valid() bool {
	switch k {
	case ExportCourses, ExportUsers, ExportClasses, ExportLectureReports, ExportStudentReports:
		return true
	}
	return false
}

// ExportFormat enumerates supported export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ExportStatus tracks asynchronous export progress.
type ExportStatus string

const (
	ExportQueued     ExportStatus = "queued"
	ExportProcessing ExportStatus = "processing"
	ExportCompleted  ExportStatus = "completed"
	ExportFailed     ExportStatus = "failed"
)

// ExportJob is an asynchronous export request and its outcome.
type ExportJob struct {
	ID          string       `json:"id"`
	Kind        ExportKind   `json:"kind"`
	Format      ExportFormat `json:"format"`
	Status      ExportStatus `json:"status"`
	RequestedBy string       `json:"requested_by"`
	FilePath    string       `json:"file_path,omitempty"`
	DownloadURL string       `json:"download_url,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
