package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/luct-portal/reporting-api/internal/models"
)

// PrincipalReportRepository manages persistence for principal summary reports.
type PrincipalReportRepository struct {
	db *sqlx.DB
}

// NewPrincipalReportRepository constructs a new repository.
func NewPrincipalReportRepository(db *sqlx.DB) *PrincipalReportRepository {
	return &PrincipalReportRepository{db: db}
}

const principalReportColumns = `id, principal_lecturer_id, program_leader_id, report_type, summary,
findings, recommendations, follow_up_actions, status, created_at, updated_at`

// Create inserts a new principal report.
func (r *PrincipalReportRepository) Create(ctx context.Context, report *models.PrincipalReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	query := `INSERT INTO principal_reports (id, principal_lecturer_id, program_leader_id, report_type, summary,
findings, recommendations, follow_up_actions, status, created_at, updated_at)
VALUES (:id, :principal_lecturer_id, :program_leader_id, :report_type, :summary,
:findings, :recommendations, :follow_up_actions, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create principal report: %w", err)
	}
	return nil
}

// FindByID fetches a single principal report.
func (r *PrincipalReportRepository) FindByID(ctx context.Context, id string) (*models.PrincipalReport, error) {
	var report models.PrincipalReport
	query := fmt.Sprintf("SELECT %s FROM principal_reports WHERE id = $1 LIMIT 1", principalReportColumns)
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, fmt.Errorf("find principal report %s: %w", id, err)
	}
	return &report, nil
}

// List returns principal reports, optionally scoped to one author, newest first.
func (r *PrincipalReportRepository) List(ctx context.Context, principalLecturerID string) ([]models.PrincipalReport, error) {
	query := fmt.Sprintf("SELECT %s FROM principal_reports", principalReportColumns)
	args := []interface{}{}
	if principalLecturerID != "" {
		query += " WHERE principal_lecturer_id = $1"
		args = append(args, principalLecturerID)
	}
	query += " ORDER BY created_at DESC"
	var reports []models.PrincipalReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list principal reports: %w", err)
	}
	return reports, nil
}

// CountByStatus counts principal reports currently in the given state.
func (r *PrincipalReportRepository) CountByStatus(ctx context.Context, status models.PrincipalReportStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM principal_reports WHERE status = $1", string(status)); err != nil {
		return 0, fmt.Errorf("count principal reports by status: %w", err)
	}
	return count, nil
}
