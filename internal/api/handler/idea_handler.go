package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ideosphere/ideosphere/internal/api/middleware"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/service"
	"github.com/ideosphere/ideosphere/pkg/response"
)

type createIdeaRequest struct {
	Title             string   `json:"title" binding:"required"`
	Summary           string   `json:"summary"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	CreatorIDs        []string `json:"creatorIds"`
	Tags              []string `json:"tags"`
	Location          string   `json:"location"`
	Criteria          []string `json:"criteria"`
	SourceIdeas       []string `json:"sourceIdeas"`
	SourcePosts       []string `json:"sourcePosts"`
	SourceDiscussions []string `json:"sourceDiscussions"`
}

type rateIdeaRequest struct {
	UserID      string `json:"userId"`
	CriterionID string `json:"criterionId" binding:"required"`
	Value       int    `json:"value"`
}

type createTopicRequest struct {
	AuthorID string `json:"authorId"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type" binding:"omitempty,topictype"`
}

// CreateIdea publishes an idea, wiring its source lineage.
// @Summary Create an idea
// @Tags ideas
// @Accept json
// @Produce json
// @Param request body createIdeaRequest true "idea payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/ideas [post]
func (h *Handler) CreateIdea(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	creators := req.CreatorIDs
	if len(creators) == 0 {
		if uid := middleware.UserID(c); uid != "" {
			creators = []string{uid}
		}
	}
	idea, err := h.content.CreateIdea(c.Request.Context(), service.CreateIdeaInput{
		Title:             req.Title,
		Summary:           req.Summary,
		Description:       req.Description,
		Status:            req.Status,
		CreatorIDs:        creators,
		Tags:              req.Tags,
		Location:          req.Location,
		Criteria:          req.Criteria,
		SourceIdeas:       req.SourceIdeas,
		SourcePosts:       req.SourcePosts,
		SourceDiscussions: req.SourceDiscussions,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, idea)
}

// GetIdea returns an idea with creators, supporters, ratings and lineage ids.
// @Summary Get idea details
// @Tags ideas
// @Param key path string true "idea id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/ideas/{key} [get]
func (h *Handler) GetIdea(c *gin.Context) {
	idea, err := h.content.GetIdea(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, idea)
}

// GetIdeaLineage returns the one-hop parent/child graph around an idea.
// @Summary Get idea lineage
// @Tags ideas
// @Param key path string true "idea id"
// @Param maxDepth query int false "per-direction truncation" default(3)
// @Success 200 {object} response.Response
// @Router /api/v1/ideas/{key}/lineage [get]
func (h *Handler) GetIdeaLineage(c *gin.Context) {
	maxDepth, _ := strconv.Atoi(c.DefaultQuery("maxDepth", "0"))
	lineage, err := h.lineage.FetchLineage(c.Request.Context(), model.KindIdea, c.Param("key"), maxDepth)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, lineage)
}

// RateIdea submits a rating and returns the updated rating list.
// @Summary Rate an idea
// @Tags ideas
// @Accept json
// @Produce json
// @Param key path string true "idea id"
// @Param request body rateIdeaRequest true "rating"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/ideas/{key}/rate [post]
func (h *Handler) RateIdea(c *gin.Context) {
	var req rateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID := firstNonEmpty(req.UserID, middleware.UserID(c))
	ratings, err := h.interaction.RateIdea(c.Request.Context(), c.Param("key"), userID, req.CriterionID, req.Value)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"ratings": ratings})
}

// ListIdeaDiscussions returns the discussion topics attached to an idea.
// @Summary List idea discussions
// @Tags ideas
// @Param key path string true "idea id"
// @Success 200 {object} response.Response
// @Router /api/v1/ideas/{key}/discussions [get]
func (h *Handler) ListIdeaDiscussions(c *gin.Context) {
	topics, err := h.content.ListIdeaDiscussions(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, topics)
}

// CreateIdeaDiscussion opens a discussion topic on an idea.
// @Summary Create a discussion topic
// @Tags ideas
// @Accept json
// @Produce json
// @Param key path string true "idea id"
// @Param request body createTopicRequest true "topic payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/ideas/{key}/discussions [post]
func (h *Handler) CreateIdeaDiscussion(c *gin.Context) {
	var req createTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	topic, err := h.content.CreateDiscussionTopic(c.Request.Context(), service.CreateTopicInput{
		IdeaID:   c.Param("key"),
		AuthorID: firstNonEmpty(req.AuthorID, middleware.UserID(c)),
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, topic)
}

// GetDiscussion returns a discussion topic with its replies.
// @Summary Get a discussion topic
// @Tags discussions
// @Param key path string true "topic id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/discussions/{key} [get]
func (h *Handler) GetDiscussion(c *gin.Context) {
	topic, err := h.content.GetDiscussion(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, topic)
}
