package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ideosphere/ideosphere/pkg/response"
)

// FeedStats returns the homepage aggregate counters.
// @Summary Homepage statistics
// @Tags feed
// @Success 200 {object} response.Response
// @Router /api/v1/feed/stats [get]
func (h *Handler) FeedStats(c *gin.Context) {
	stats, err := h.feed.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, stats)
}

// WeightedRandomFeed draws a support-weighted random sample of recent content.
// @Summary Weighted random feed
// @Tags feed
// @Param limit query int false "sample size" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/feed/weighted-random [get]
func (h *Handler) WeightedRandomFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, err := h.feed.WeightedRandom(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items)
}

// NeighborsActivity lists recent content near a location.
// @Summary Neighborhood activity feed
// @Tags feed
// @Param location query string false "location filter"
// @Param limit query int false "max items" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/feed/neighbors-activity [get]
func (h *Handler) NeighborsActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.feed.NeighborsActivity(c.Request.Context(), c.Query("location"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items)
}
