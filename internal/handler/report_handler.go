package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luct-portal/reporting-api/internal/models"
	"github.com/luct-portal/reporting-api/internal/service"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
	"github.com/luct-portal/reporting-api/pkg/response"
)

// ReportHandler exposes the report workflow endpoints. All routing funnels
// through the workflow facade.
type ReportHandler struct {
	workflow *service.WorkflowService
}

// NewReportHandler constructs the handler.
func NewReportHandler(workflow *service.WorkflowService) *ReportHandler {
	return &ReportHandler{workflow: workflow}
}

// SubmitLectureReport godoc
// @Summary Submit a lecture report
// @Tags Reports
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /reports/lecture [post]
func (h *ReportHandler) SubmitLectureReport(c *gin.Context) {
	var req service.SubmitLectureReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.workflow.SubmitLectureReport(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// SubmitStudentReport godoc
// @Summary Submit a student issue report
// @Tags Reports
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /reports/student [post]
func (h *ReportHandler) SubmitStudentReport(c *gin.Context) {
	var req service.SubmitStudentReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.workflow.SubmitStudentReport(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// CreatePrincipalReport godoc
// @Summary Create a principal summary report
// @Tags Reports
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /reports/principal [post]
func (h *ReportHandler) CreatePrincipalReport(c *gin.Context) {
	var req service.CreatePrincipalReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.workflow.CreatePrincipalReport(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// ListReports godoc
// @Summary List reports of one family visible to the caller
// @Tags Reports
// @Produce json
// @Param family path string true "Report family"
// @Success 200 {object} response.Envelope
// @Router /reports/{family} [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	family := models.ReportFamily(c.Param("family"))
	if !family.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown report family"))
		return
	}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 50)
	list, err := h.workflow.VisibleReports(c.Request.Context(), actorFromContext(c), family, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, list.Pagination)
}

// GetReport godoc
// @Summary Fetch one report by family and id
// @Tags Reports
// @Produce json
// @Param family path string true "Report family"
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{family}/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	family := models.ReportFamily(c.Param("family"))
	if !family.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown report family"))
		return
	}
	list, err := h.workflow.GetReport(c.Request.Context(), actorFromContext(c), family, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// ReviewLectureReport godoc
// @Summary Review a lecture report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/lecture/{id}/review [post]
func (h *ReportHandler) ReviewLectureReport(c *gin.Context) {
	var req service.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.workflow.ReviewLectureReport(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// AddressLectureReport godoc
// @Summary Address a lecture report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/lecture/{id}/address [post]
func (h *ReportHandler) AddressLectureReport(c *gin.Context) {
	var req service.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.workflow.AddressLectureReport(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// AttachFeedback godoc
// @Summary Attach feedback to a lecture report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/lecture/{id}/feedback [post]
func (h *ReportHandler) AttachFeedback(c *gin.Context) {
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.workflow.AttachFeedback(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// RespondToStudentReport godoc
// @Summary Respond to a student report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/student/{id}/respond [post]
func (h *ReportHandler) RespondToStudentReport(c *gin.Context) {
	var req service.RespondStudentReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.workflow.RespondToStudentReport(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
