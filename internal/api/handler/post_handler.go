package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ideosphere/ideosphere/internal/api/middleware"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/service"
	"github.com/ideosphere/ideosphere/pkg/response"
)

type createPostRequest struct {
	AuthorID  string   `json:"authorId"`
	Content   string   `json:"content" binding:"required"`
	Tags      []string `json:"tags"`
	Location  string   `json:"location"`
	SourceIDs []string `json:"sourceIds"` // qualified {collection}/{key} refs
}

type addReplyRequest struct {
	AuthorID string `json:"authorId"`
	Content  string `json:"content" binding:"required"`
}

type actorRequest struct {
	UserID string `json:"userId"`
}

// CreatePost publishes a post.
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body createPostRequest true "post payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.content.CreatePost(c.Request.Context(), service.CreatePostInput{
		AuthorID:  firstNonEmpty(req.AuthorID, middleware.UserID(c)),
		Content:   req.Content,
		Tags:      req.Tags,
		Location:  req.Location,
		SourceIDs: req.SourceIDs,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, post)
}

// GetPost returns a post with author, supporters and replies.
// @Summary Get post details
// @Tags posts
// @Param key path string true "post id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{key} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.content.GetPost(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, post)
}

// GetPostLineage returns the one-hop parent/child graph around a post.
// @Summary Get post lineage
// @Tags posts
// @Param key path string true "post id"
// @Param maxDepth query int false "per-direction truncation" default(3)
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{key}/lineage [get]
func (h *Handler) GetPostLineage(c *gin.Context) {
	maxDepth, _ := strconv.Atoi(c.DefaultQuery("maxDepth", "0"))
	lineage, err := h.lineage.FetchLineage(c.Request.Context(), model.KindPost, c.Param("key"), maxDepth)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, lineage)
}

// AddComment appends a reply to a post or discussion topic.
// @Summary Add a comment
// @Tags posts
// @Accept json
// @Produce json
// @Param key path string true "post id"
// @Param request body addReplyRequest true "reply payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts/{key}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req addReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	authorID := firstNonEmpty(req.AuthorID, middleware.UserID(c))
	reply, err := h.interaction.AddReply(c.Request.Context(), c.Param("key"), authorID, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, reply)
}

// UpvoteComment toggles the caller's upvote on a reply.
// @Summary Toggle a comment upvote
// @Tags posts
// @Accept json
// @Produce json
// @Param key path string true "post id"
// @Param id path string true "reply id"
// @Param request body actorRequest false "acting user"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{key}/comments/{id}/upvote [post]
func (h *Handler) UpvoteComment(c *gin.Context) {
	var req actorRequest
	_ = c.ShouldBindJSON(&req)
	userID := firstNonEmpty(req.UserID, middleware.UserID(c))
	on, err := h.interaction.ToggleReplyUpvote(c.Request.Context(), c.Param("key"), c.Param("id"), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"upvoted": on})
}

// MarkAsAnswer accepts a reply as the answer of a question topic.
// @Summary Mark a comment as the answer
// @Tags posts
// @Accept json
// @Produce json
// @Param key path string true "post id"
// @Param id path string true "reply id"
// @Param request body actorRequest false "acting user"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts/{key}/comments/{id}/mark-as-answer [post]
func (h *Handler) MarkAsAnswer(c *gin.Context) {
	var req actorRequest
	_ = c.ShouldBindJSON(&req)
	actorID := firstNonEmpty(req.UserID, middleware.UserID(c))
	if err := h.interaction.MarkAsAnswer(c.Request.Context(), c.Param("key"), c.Param("id"), actorID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
