package models

// ReportFamily distinguishes the three report types handled by the workflow.
type ReportFamily string

const (
	FamilyLectureReports   ReportFamily = "lecture_reports"
	FamilyStudentReports   ReportFamily = "student_reports"
	FamilyPrincipalReports ReportFamily = "principal_reports"
)

// Valid reports whether the family is known.
func (f ReportFamily) Valid() bool {
	switch f {
	case FamilyLectureReports, FamilyStudentReports, FamilyPrincipalReports:
		return true
	}
	return false
}

// InitialStatus returns the status a freshly submitted report of this family
// carries. Pending counts are defined as reports still in this state.
func (f ReportFamily) InitialStatus() string {
	switch f {
	case FamilyLectureReports:
		return string(LectureReportSubmitted)
	case FamilyStudentReports:
		return string(StudentReportPending)
	case FamilyPrincipalReports:
		return string(PrincipalReportDraft)
	}
	return ""
}
