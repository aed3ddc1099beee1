package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
)

type monitoringRepository interface {
	Create(ctx context.Context, record *models.Monitoring) error
	Update(ctx context.Context, record *models.Monitoring) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Monitoring, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Monitoring, error)
	AverageAttendance(ctx context.Context, studentID string) (float64, error)
	PerformanceBuckets(ctx context.Context, studentID string) ([]models.PerformanceBucket, error)
}

// MonitoringService manages per-student attendance and performance records.
type MonitoringService struct {
	repo      monitoringRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMonitoringService constructs the service.
func NewMonitoringService(repo monitoringRepository, validate *validator.Validate, logger *zap.Logger) *MonitoringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitoringService{repo: repo, validator: validate, logger: logger}
}

// MonitoringRequest describes a monitoring record create or update.
type MonitoringRequest struct {
	StudentID            string    `json:"student_id" validate:"required"`
	CourseID             string    `json:"course_id" validate:"required"`
	AttendancePercentage float64   `json:"attendance_percentage" validate:"min=0,max=100"`
	PerformanceRating    string    `json:"performance_rating" validate:"required"`
	OverallGrade         string    `json:"overall_grade"`
	Notes                string    `json:"notes"`
	MonitoringDate       time.Time `json:"monitoring_date"`
}

// Record creates a monitoring row authored by the acting lecturer.
func (s *MonitoringService) Record(ctx context.Context, actor Actor, req MonitoringRequest) (*models.Monitoring, error) {
	if actor.Role != models.RoleLecturer && actor.Role != models.RolePrincipalLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only lecturers record monitoring data")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	record := &models.Monitoring{
		StudentID:            req.StudentID,
		CourseID:             req.CourseID,
		LecturerID:           actor.ID,
		AttendancePercentage: req.AttendancePercentage,
		PerformanceRating:    req.PerformanceRating,
		Notes:                req.Notes,
		MonitoringDate:       req.MonitoringDate,
	}
	if record.MonitoringDate.IsZero() {
		record.MonitoringDate = time.Now().UTC()
	}
	if req.OverallGrade != "" {
		record.OverallGrade = &req.OverallGrade
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, storeError(err, "monitoring record not found")
	}
	s.logger.Info("monitoring recorded",
		zap.String("record_id", record.ID),
		zap.String("student_id", req.StudentID),
		zap.String("course_id", req.CourseID))
	return record, nil
}

// Update rewrites a monitoring row's measured fields.
func (s *MonitoringService) Update(ctx context.Context, actor Actor, id string, req MonitoringRequest) (*models.Monitoring, error) {
	if actor.Role != models.RoleLecturer && actor.Role != models.RolePrincipalLecturer {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only lecturers update monitoring data")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	record := &models.Monitoring{
		ID:                   id,
		StudentID:            req.StudentID,
		CourseID:             req.CourseID,
		LecturerID:           actor.ID,
		AttendancePercentage: req.AttendancePercentage,
		PerformanceRating:    req.PerformanceRating,
		Notes:                req.Notes,
		MonitoringDate:       req.MonitoringDate,
	}
	if req.OverallGrade != "" {
		record.OverallGrade = &req.OverallGrade
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, storeError(err, "monitoring record not found")
	}
	return record, nil
}

// ForStudent lists monitoring rows for a student. Students may only read
// their own rows.
func (s *MonitoringService) ForStudent(ctx context.Context, actor Actor, studentID string) ([]models.Monitoring, error) {
	if actor.Role == models.RoleStudent && actor.ID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only view their own monitoring data")
	}
	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "monitoring records not found")
	}
	return records, nil
}

// ForCourse lists monitoring rows for a course.
func (s *MonitoringService) ForCourse(ctx context.Context, actor Actor, courseID string) ([]models.Monitoring, error) {
	if actor.Role == models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students may not view course-wide monitoring data")
	}
	records, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "monitoring records not found")
	}
	return records, nil
}

// AttendanceStats aggregates a student's monitoring rows into the average
// attendance and per-rating counts. No rows yields zeroes, not an error.
func (s *MonitoringService) AttendanceStats(ctx context.Context, studentID string) (*models.AttendanceStats, error) {
	avg, err := s.repo.AverageAttendance(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "monitoring records not found")
	}
	buckets, err := s.repo.PerformanceBuckets(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "monitoring records not found")
	}
	if buckets == nil {
		buckets = []models.PerformanceBucket{}
	}
	return &models.AttendanceStats{
		StudentID:        studentID,
		AvgAttendance:    avg,
		PerformanceStats: buckets,
	}, nil
}
