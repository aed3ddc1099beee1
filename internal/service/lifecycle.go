package service

import (
	"fmt"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

// Actor identifies the authenticated user performing a workflow operation.
type Actor struct {
	ID       string
	Role     models.Role
	FullName string
}

// lectureTransitions is the legal edge set of the lecture report state
// machine. A program leader may address a report before the principal
// lecturer reviews it, hence the submitted->addressed edge.
var lectureTransitions = map[models.LectureReportStatus][]models.LectureReportStatus{
	models.LectureReportSubmitted: {models.LectureReportReviewed, models.LectureReportAddressed},
	models.LectureReportReviewed:  {models.LectureReportAddressed},
	models.LectureReportAddressed: {},
}

// validateLectureTransition rejects any edge not present in the state machine.
func validateLectureTransition(from, to models.LectureReportStatus) error {
	for _, next := range lectureTransitions[from] {
		if next == to {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition,
		fmt.Sprintf("lecture report cannot move from %q to %q", from, to))
}

// validateStudentReportTarget checks the caller-supplied target state of a
// student report response. Any of the three states is a legal target; the
// responder may move a report backwards, which is preserved source behavior.
func validateStudentReportTarget(target models.StudentReportStatus) error {
	if !target.Valid() {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("unknown student report status %q", target))
	}
	return nil
}

// validatePrincipalReportStatus checks the creation-time status of a
// principal report. There is no transition after creation.
func validatePrincipalReportStatus(status models.PrincipalReportStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("principal report status must be draft or submitted, got %q", status))
	}
	return nil
}

// validateRating enforces the shared 1-5 rating scale.
func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return appErrors.Clone(appErrors.ErrValidation, "rating must be an integer between 1 and 5")
	}
	return nil
}
