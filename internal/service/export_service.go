package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luct-portal/reporting-api/internal/models"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
	"github.com/luct-portal/reporting-api/pkg/export"
	"github.com/luct-portal/reporting-api/pkg/jobs"
	"github.com/luct-portal/reporting-api/pkg/storage"
)

type exportCourseLister interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
}

type exportUserLister interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

type exportClassLister interface {
	List(ctx context.Context) ([]models.ClassDetail, error)
}

type exportLectureReportLister interface {
	List(ctx context.Context, filter models.LectureReportFilter) ([]models.LectureReport, int, error)
}

type exportStudentReportLister interface {
	List(ctx context.Context, filter models.StudentReportFilter) ([]models.StudentReport, int, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix  string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// ExportSources bundles the dataset providers an export can draw from.
type ExportSources struct {
	Courses        exportCourseLister
	Users          exportUserLister
	Classes        exportClassLister
	LectureReports exportLectureReportLister
	StudentReports exportStudentReportLister
}

// ExportService renders datasets to CSV or PDF asynchronously. Jobs run on an
// in-memory queue; completed files are served through signed download URLs.
type ExportService struct {
	sources ExportSources
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig

	queue *jobs.Queue

	mu      sync.RWMutex
	tracked map[string]*models.ExportJob
}

// NewExportService constructs an ExportService and its worker queue. Call
// Start before enqueueing.
func NewExportService(sources ExportSources, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		sources: sources,
		storage: store,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
		tracked: map[string]*models.ExportJob{},
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue and stops the workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue registers an export job and schedules it. Only reviewer roles and
// the faculty manager may export; students never see bulk data.
func (s *ExportService) Enqueue(ctx context.Context, actor Actor, kind models.ExportKind, format models.ExportFormat) (*models.ExportJob, error) {
	if actor.Role == models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students may not export data")
	}
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export kind")
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		Kind:        kind,
		Format:      format,
		Status:      models.ExportQueued,
		RequestedBy: actor.ID,
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Lock()
	s.tracked[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(kind), Payload: job}); err != nil {
		s.mu.Lock()
		delete(s.tracked, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export queue is full")
	}
	s.logger.Info("export queued",
		zap.String("job_id", job.ID),
		zap.String("kind", string(kind)),
		zap.String("format", string(format)))
	return job, nil
}

// Status returns the tracked state of an export job.
func (s *ExportService) Status(id string) (*models.ExportJob, error) {
	s.mu.RLock()
	job, ok := s.tracked[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	copied := *job
	return &copied, nil
}

// Open resolves a signed download token and returns a handle to the file.
func (s *ExportService) Open(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return file, nil
}

// process is the queue handler: build, render, store, sign.
func (s *ExportService) process(ctx context.Context, qj jobs.Job) error {
	job, ok := qj.Payload.(*models.ExportJob)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", qj.Payload)
	}
	s.setStatus(job.ID, models.ExportProcessing, "", "")

	dataset, title, err := s.buildDataset(ctx, job.Kind)
	if err != nil {
		s.setStatus(job.ID, models.ExportFailed, "", err.Error())
		return err
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		s.setStatus(job.ID, models.ExportFailed, "", err.Error())
		return err
	}

	filename := fmt.Sprintf("%s_%s_%s.%s", job.Kind, job.ID[:8], time.Now().UTC().Format("20060102T150405"), job.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.setStatus(job.ID, models.ExportFailed, "", err.Error())
		return err
	}

	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.setStatus(job.ID, models.ExportFailed, "", err.Error())
		return err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}
	url := fmt.Sprintf("%s/exports/download/%s", prefix, token)

	s.complete(job.ID, relPath, url)
	s.logger.Info("export completed", zap.String("job_id", job.ID), zap.String("path", relPath))
	return nil
}

func (s *ExportService) setStatus(id string, status models.ExportStatus, filePath, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.tracked[id]
	if !ok {
		return
	}
	job.Status = status
	if filePath != "" {
		job.FilePath = filePath
	}
	job.Error = errMsg
	if status == models.ExportFailed {
		now := time.Now().UTC()
		job.CompletedAt = &now
	}
}

func (s *ExportService) complete(id, relPath, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.tracked[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	job.Status = models.ExportCompleted
	job.FilePath = relPath
	job.DownloadURL = url
	job.Error = ""
	job.CompletedAt = &now
}

const exportPageSize = 200

func (s *ExportService) buildDataset(ctx context.Context, kind models.ExportKind) (export.Dataset, string, error) {
	switch kind {
	case models.ExportCourses:
		return s.coursesDataset(ctx)
	case models.ExportUsers:
		return s.usersDataset(ctx)
	case models.ExportClasses:
		return s.classesDataset(ctx)
	case models.ExportLectureReports:
		return s.lectureReportsDataset(ctx)
	case models.ExportStudentReports:
		return s.studentReportsDataset(ctx)
	default:
		return export.Dataset{}, "", fmt.Errorf("unknown export kind %s", kind)
	}
}

func (s *ExportService) coursesDataset(ctx context.Context) (export.Dataset, string, error) {
	headers := []string{"code", "name", "faculty", "department", "credits", "status"}
	rows := []map[string]string{}
	for page := 1; ; page++ {
		courses, _, err := s.sources.Courses.List(ctx, models.CourseFilter{Page: page, PageSize: exportPageSize})
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, c := range courses {
			rows = append(rows, map[string]string{
				"code":       c.Code,
				"name":       c.Name,
				"faculty":    c.Faculty,
				"department": c.Department,
				"credits":    strconv.Itoa(c.Credits),
				"status":     c.Status,
			})
		}
		if len(courses) < exportPageSize {
			break
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Courses", nil
}

func (s *ExportService) usersDataset(ctx context.Context) (export.Dataset, string, error) {
	headers := []string{"email", "first_name", "last_name", "role", "faculty", "department"}
	rows := []map[string]string{}
	for page := 1; ; page++ {
		users, _, err := s.sources.Users.List(ctx, models.UserFilter{Page: page, PageSize: exportPageSize})
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, u := range users {
			rows = append(rows, map[string]string{
				"email":      u.Email,
				"first_name": u.FirstName,
				"last_name":  u.LastName,
				"role":       string(u.Role),
				"faculty":    u.Faculty,
				"department": u.Department,
			})
		}
		if len(users) < exportPageSize {
			break
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Users", nil
}

func (s *ExportService) classesDataset(ctx context.Context) (export.Dataset, string, error) {
	headers := []string{"name", "course", "lecturer", "schedule_day", "schedule_time", "venue", "semester"}
	classes, err := s.sources.Classes.List(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(classes))
	for _, c := range classes {
		lecturer := ""
		if c.LecturerName != nil {
			lecturer = *c.LecturerName
		}
		rows = append(rows, map[string]string{
			"name":          c.Name,
			"course":        c.CourseName,
			"lecturer":      lecturer,
			"schedule_day":  c.ScheduleDay,
			"schedule_time": c.ScheduleTime,
			"venue":         c.Venue,
			"semester":      c.Semester,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Classes", nil
}

func (s *ExportService) lectureReportsDataset(ctx context.Context) (export.Dataset, string, error) {
	headers := []string{"week", "date", "topic", "students_present", "status", "challenges"}
	rows := []map[string]string{}
	for page := 1; ; page++ {
		reports, _, err := s.sources.LectureReports.List(ctx, models.LectureReportFilter{Page: page, PageSize: exportPageSize})
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, r := range reports {
			rows = append(rows, map[string]string{
				"week":             strconv.Itoa(r.WeekOfReporting),
				"date":             r.DateOfLecture.Format("2006-01-02"),
				"topic":            r.TopicTaught,
				"students_present": strconv.Itoa(r.ActualStudentsPresent),
				"status":           string(r.Status),
				"challenges":       r.ChallengesEncountered,
			})
		}
		if len(reports) < exportPageSize {
			break
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Lecture Reports", nil
}

func (s *ExportService) studentReportsDataset(ctx context.Context) (export.Dataset, string, error) {
	headers := []string{"lecturer", "course", "issue_type", "urgency", "status", "date_occurred"}
	rows := []map[string]string{}
	for page := 1; ; page++ {
		reports, _, err := s.sources.StudentReports.List(ctx, models.StudentReportFilter{Page: page, PageSize: exportPageSize})
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, r := range reports {
			rows = append(rows, map[string]string{
				"lecturer":      r.LecturerName,
				"course":        r.CourseName,
				"issue_type":    r.IssueType,
				"urgency":       string(r.UrgencyLevel),
				"status":        string(r.Status),
				"date_occurred": r.DateOccurred.Format("2006-01-02"),
			})
		}
		if len(reports) < exportPageSize {
			break
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Student Reports", nil
}
