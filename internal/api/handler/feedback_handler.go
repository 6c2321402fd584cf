package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ideosphere/ideosphere/internal/api/middleware"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/pkg/response"
)

type feedbackRequest struct {
	UserID    string `json:"userId"`
	ContentID string `json:"contentId" binding:"required"` // qualified {collection}/{key}
	Type      string `json:"type" binding:"required"`
}

// CreateFeedback records a support or report stance. Re-submitting an
// existing stance is a no-op.
// @Summary Add feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body feedbackRequest true "stance"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/feedback [post]
func (h *Handler) CreateFeedback(c *gin.Context) {
	h.setFeedback(c, true)
}

// DeleteFeedback withdraws a support or report stance.
// @Summary Remove feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body feedbackRequest true "stance"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/feedback [delete]
func (h *Handler) DeleteFeedback(c *gin.Context) {
	h.setFeedback(c, false)
}

func (h *Handler) setFeedback(c *gin.Context, on bool) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID := firstNonEmpty(req.UserID, middleware.UserID(c))

	var err error
	switch req.Type {
	case model.FeedbackSupports:
		err = h.interaction.SetSupport(c.Request.Context(), userID, req.ContentID, on)
	case model.FeedbackReports:
		err = h.interaction.SetReport(c.Request.Context(), userID, req.ContentID, on)
	default:
		response.BadRequest(c, "unsupported feedback type "+req.Type)
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
