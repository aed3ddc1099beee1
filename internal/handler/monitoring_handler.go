package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luct-portal/reporting-api/internal/service"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
	"github.com/luct-portal/reporting-api/pkg/response"
)

// MonitoringHandler exposes attendance/performance monitoring endpoints.
type MonitoringHandler struct {
	monitoring *service.MonitoringService
}

// NewMonitoringHandler constructs the handler.
func NewMonitoringHandler(monitoring *service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoring: monitoring}
}

// Record godoc
// @Summary Record a monitoring entry
// @Tags Monitoring
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /monitoring [post]
func (h *MonitoringHandler) Record(c *gin.Context) {
	var req service.MonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	record, err := h.monitoring.Record(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update a monitoring entry
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /monitoring/{id} [put]
func (h *MonitoringHandler) Update(c *gin.Context) {
	var req service.MonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	record, err := h.monitoring.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// ByStudent godoc
// @Summary Monitoring entries for one student
// @Tags Monitoring
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /monitoring/student/{id} [get]
func (h *MonitoringHandler) ByStudent(c *gin.Context) {
	records, err := h.monitoring.ForStudent(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ByCourse godoc
// @Summary Monitoring entries for one course
// @Tags Monitoring
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /monitoring/course/{id} [get]
func (h *MonitoringHandler) ByCourse(c *gin.Context) {
	records, err := h.monitoring.ForCourse(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
