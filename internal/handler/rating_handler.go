package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luct-portal/reporting-api/internal/models"
	"github.com/luct-portal/reporting-api/internal/service"
	appErrors "github.com/luct-portal/reporting-api/pkg/errors"
	"github.com/luct-portal/reporting-api/pkg/response"
)

// RatingHandler exposes rating endpoints.
type RatingHandler struct {
	workflow *service.WorkflowService
	ratings  *service.RatingService
}

// NewRatingHandler constructs the handler.
func NewRatingHandler(workflow *service.WorkflowService, ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{workflow: workflow, ratings: ratings}
}

// Submit godoc
// @Summary Submit a course or lecturer rating
// @Tags Ratings
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /ratings [post]
func (h *RatingHandler) Submit(c *gin.Context) {
	var req service.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	rating, err := h.workflow.SubmitRating(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rating)
}

// List godoc
// @Summary List ratings for a course or lecturer
// @Tags Ratings
// @Produce json
// @Param scope path string true "course or lecturer"
// @Param id path string true "Scope ID"
// @Success 200 {object} response.Envelope
// @Router /ratings/{scope}/{id} [get]
func (h *RatingHandler) List(c *gin.Context) {
	ratings, err := h.ratings.List(c.Request.Context(), models.RatingScope(c.Param("scope")), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ratings, nil)
}

// RateClass godoc
// @Summary Rate a class the caller teaches
// @Tags Ratings
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ratings/class [post]
func (h *RatingHandler) RateClass(c *gin.Context) {
	var req service.RateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	rating, err := h.workflow.RateClass(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rating, nil)
}

// ClassRating godoc
// @Summary The caller's stored rating for a class
// @Tags Ratings
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /ratings/class/{id} [get]
func (h *RatingHandler) ClassRating(c *gin.Context) {
	rating, err := h.ratings.ClassRating(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rating, nil)
}
