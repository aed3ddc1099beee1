package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/luct-portal/reporting-api/internal/models"
	"github.com/luct-portal/reporting-api/internal/service"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
	"github.com/luct-portal/reporting-api/pkg/response"
)

// ExportHandler exposes asynchronous export endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

type enqueueExportRequest struct {
	Kind   string `json:"kind"`
	Format string `json:"format"`
}

// Enqueue godoc
// @Summary Queue a dataset export
// @Tags Exports
// @Accept json
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Enqueue(c *gin.Context) {
	var req enqueueExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	job, err := h.exports.Enqueue(c.Request.Context(), actorFromContext(c),
		models.ExportKind(req.Kind), models.ExportFormat(req.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.exports.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a completed export by signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.exports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	name := filepath.Base(file.Name())
	c.FileAttachment(file.Name(), name)
}
