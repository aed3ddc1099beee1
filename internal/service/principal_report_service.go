package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type principalReportRepository interface {
	Create(ctx context.Context, report *models.PrincipalReport) error
	FindByID(ctx context.Context, id string) (*models.PrincipalReport, error)
	List(ctx context.Context, principalLecturerID string) ([]models.PrincipalReport, error)
	CountByStatus(ctx context.Context, status models.PrincipalReportStatus) (int, error)
}

// PrincipalReportService handles principal summary reports. Reports are
// append-only: once created there is no edit or transition path.
type PrincipalReportService struct {
	repo      principalReportRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPrincipalReportService constructs the service.
func NewPrincipalReportService(repo principalReportRepository, validate *validator.Validate, logger *zap.Logger) *PrincipalReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrincipalReportService{repo: repo, validator: validate, logger: logger}
}

// CreatePrincipalReportRequest describes a principal summary submission.
type CreatePrincipalReportRequest struct {
	ProgramLeaderID string `json:"program_leader_id"`
	ReportType      string `json:"report_type" validate:"required"`
	Summary         string `json:"summary" validate:"required"`
	Findings        string `json:"findings"`
	Recommendations string `json:"recommendations"`
	FollowUpActions string `json:"follow_up_actions"`
	Status          string `json:"status"`
}

// Create stores a principal report as draft or submitted.
func (s *PrincipalReportService) Create(ctx context.Context, actor Actor, req CreatePrincipalReportRequest) (*models.PrincipalReport, error) {
	if actor.Role != models.RolePrincipalLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only principal lecturers create principal reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if !models.PrincipalReportType(req.ReportType).Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown principal report type")
	}
	status := models.PrincipalReportStatus(req.Status)
	if req.Status == "" {
		status = models.PrincipalReportDraft
	}
	if err := validatePrincipalReportStatus(status); err != nil {
		return nil, err
	}

	report := &models.PrincipalReport{
		PrincipalLecturerID: actor.ID,
		ReportType:          models.PrincipalReportType(req.ReportType),
		Summary:             req.Summary,
		Findings:            req.Findings,
		Recommendations:     req.Recommendations,
		FollowUpActions:     req.FollowUpActions,
		Status:              status,
	}
	if req.ProgramLeaderID != "" {
		report.ProgramLeaderID = &req.ProgramLeaderID
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, storeError(err, "principal report not found")
	}
	s.logger.Info("principal report created",
		zap.String("report_id", report.ID),
		zap.String("author_id", actor.ID),
		zap.String("status", string(status)))
	return report, nil
}

// Get fetches one principal report, enforcing visibility.
func (s *PrincipalReportService) Get(ctx context.Context, actor Actor, id string) (*models.PrincipalReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "principal report not found")
	}
	if err := requirePrincipalReportAccess(actor, report); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns the principal reports the actor may see. Authors see their
// own; program leaders see all.
func (s *PrincipalReportService) List(ctx context.Context, actor Actor) ([]models.PrincipalReport, error) {
	switch actor.Role {
	case models.RolePrincipalLecturer:
		reports, err := s.repo.List(ctx, actor.ID)
		if err != nil {
			return nil, storeError(err, "principal reports not found")
		}
		return reports, nil
	case models.RoleProgramLeader:
		reports, err := s.repo.List(ctx, "")
		if err != nil {
			return nil, storeError(err, "principal reports not found")
		}
		return reports, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not view principal reports")
	}
}

// PendingCount counts reports still in draft.
func (s *PrincipalReportService) PendingCount(ctx context.Context) (int, error) {
	count, err := s.repo.CountByStatus(ctx, models.PrincipalReportDraft)
	if err != nil {
		return 0, storeError(err, "principal reports not found")
	}
	return count, nil
}
