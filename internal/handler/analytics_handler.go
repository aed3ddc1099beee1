package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luct-portal/reporting-api/internal/models"
	"github.com/luct-portal/reporting-api/internal/service"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
	"github.com/luct-portal/reporting-api/pkg/response"
)

// AnalyticsHandler exposes derived statistics endpoints.
type AnalyticsHandler struct {
	workflow  *service.WorkflowService
	analytics *service.AnalyticsService
	metrics   *service.MetricsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(workflow *service.WorkflowService, analytics *service.AnalyticsService, metrics *service.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{workflow: workflow, analytics: analytics, metrics: metrics}
}

// AverageRating godoc
// @Summary Average rating for a course or lecturer
// @Tags Analytics
// @Produce json
// @Param scope path string true "course or lecturer"
// @Param id path string true "Scope ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/ratings/{scope}/{id} [get]
func (h *AnalyticsHandler) AverageRating(c *gin.Context) {
	result, err := h.workflow.Aggregate(c.Request.Context(), actorFromContext(c), service.AggregateQuery{
		Kind:    service.AggregateAverageRating,
		Scope:   models.RatingScope(c.Param("scope")),
		ScopeID: c.Param("id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// PendingCount godoc
// @Summary Pending report count for one family
// @Tags Analytics
// @Produce json
// @Param family path string true "Report family"
// @Success 200 {object} response.Envelope
// @Router /analytics/pending/{family} [get]
func (h *AnalyticsHandler) PendingCount(c *gin.Context) {
	result, err := h.workflow.Aggregate(c.Request.Context(), actorFromContext(c), service.AggregateQuery{
		Kind:   service.AggregatePendingCount,
		Family: models.ReportFamily(c.Param("family")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// PendingCounts godoc
// @Summary Pending report counts across all families
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/pending [get]
func (h *AnalyticsHandler) PendingCounts(c *gin.Context) {
	counts, err := h.analytics.PendingCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// AttendanceStats godoc
// @Summary Attendance and performance rollup for one student
// @Tags Analytics
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/attendance/{id} [get]
func (h *AnalyticsHandler) AttendanceStats(c *gin.Context) {
	result, err := h.workflow.Aggregate(c.Request.Context(), actorFromContext(c), service.AggregateQuery{
		Kind:      service.AggregateAttendanceStats,
		StudentID: c.Param("id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Dashboard godoc
// @Summary Faculty-wide dashboard rollup
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	summary, err := h.analytics.Dashboard(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// System godoc
// @Summary Runtime metrics snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.Role != models.RoleFacultyManager && actor.Role != models.RoleProgramLeader {
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
