package models

import "time"

// PendingCounts is the per-family count of reports still in their initial
// state.
type PendingCounts struct {
	LectureReports   int `json:"lecture_reports"`
	StudentReports   int `json:"student_reports"`
	PrincipalReports int `json:"principal_reports"`
}

// Total sums the per-family counts.
func (p PendingCounts) Total() int {
	return p.LectureReports + p.StudentReports + p.PrincipalReports
}

// DashboardSummary is the faculty-wide rollup surfaced to faculty managers
// and the administrative dashboard. It carries only aggregates, never report
// bodies.
type DashboardSummary struct {
	TotalUsers     int           `json:"total_users"`
	TotalCourses   int           `json:"total_courses"`
	TotalClasses   int           `json:"total_classes"`
	PendingCounts  PendingCounts `json:"pending_counts"`
	ReportsByState map[string]int `json:"reports_by_state"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// SystemMetrics is a lightweight runtime snapshot for operations dashboards.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
