package service

import (
	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

// The visibility policy is a pure function of (role, actor, report). It never
// mutates anything and a direct fetch outside the policy fails loudly with
// FORBIDDEN instead of returning an empty record.

// lectureReportVisible reports whether the actor may read the lecture report.
func lectureReportVisible(actor Actor, report *models.LectureReport) bool {
	switch actor.Role {
	case models.RoleLecturer:
		return report.LecturerID == actor.ID
	case models.RolePrincipalLecturer, models.RoleProgramLeader:
		return true
	default:
		return false
	}
}

// studentReportVisible reports whether the actor may read the student report.
// Lecturers match on the denormalized lecturer name the student typed; this is
// an intentionally weak link carried over from the original data model.
func studentReportVisible(actor Actor, report *models.StudentReport) bool {
	switch actor.Role {
	case models.RoleStudent:
		return report.StudentID == actor.ID
	case models.RoleLecturer:
		return report.LecturerName == actor.FullName
	case models.RolePrincipalLecturer:
		return true
	default:
		return false
	}
}

// principalReportVisible reports whether the actor may read the principal
// report. The author and the program leader audience may; nobody else.
func principalReportVisible(actor Actor, report *models.PrincipalReport) bool {
	switch actor.Role {
	case models.RolePrincipalLecturer:
		return report.PrincipalLecturerID == actor.ID
	case models.RoleProgramLeader:
		return true
	default:
		return false
	}
}

func requireLectureReportAccess(actor Actor, report *models.LectureReport) error {
	if !lectureReportVisible(actor, report) {
		return appErrors.Clone(appErrors.ErrForbidden, "lecture report not visible to this role")
	}
	return nil
}

func requireStudentReportAccess(actor Actor, report *models.StudentReport) error {
	if !studentReportVisible(actor, report) {
		return appErrors.Clone(appErrors.ErrForbidden, "student report not visible to this role")
	}
	return nil
}

func requirePrincipalReportAccess(actor Actor, report *models.PrincipalReport) error {
	if !principalReportVisible(actor, report) {
		return appErrors.Clone(appErrors.ErrForbidden, "principal report not visible to this role")
	}
	return nil
}

// requireFamilyView gates list operations on the role capability table.
func requireFamilyView(actor Actor, family models.ReportFamily) error {
	if !actor.Role.CanView(family) {
		return appErrors.Clone(appErrors.ErrForbidden, "role may not view "+string(family))
	}
	return nil
}

func filterStudentReports(actor Actor, reports []models.StudentReport) []models.StudentReport {
	visible := make([]models.StudentReport, 0, len(reports))
	for i := range reports {
		if studentReportVisible(actor, &reports[i]) {
			visible = append(visible, reports[i])
		}
	}
	return visible
}

func filterLectureReports(actor Actor, reports []models.LectureReport) []models.LectureReport {
	visible := make([]models.LectureReport, 0, len(reports))
	for i := range reports {
		if lectureReportVisible(actor, &reports[i]) {
			visible = append(visible, reports[i])
		}
	}
	return visible
}
