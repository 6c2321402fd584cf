package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ideosphere/ideosphere/internal/api/middleware"
	"github.com/ideosphere/ideosphere/internal/service"
	"github.com/ideosphere/ideosphere/pkg/response"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password"`
	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	BirthYear int    `json:"birthYear"`
}

// Login authenticates by email and returns the profile plus a token.
// @Summary Log in by email
// @Tags users
// @Accept json
// @Produce json
// @Param request body loginRequest true "credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"user": user, "token": token})
}

// CreateUser registers an account; omitting the password creates a guest.
// @Summary Create an account
// @Tags users
// @Accept json
// @Produce json
// @Param request body createUserRequest true "profile"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.users.CreateUser(c.Request.Context(), service.CreateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
		Location:  req.Location,
		BirthYear: req.BirthYear,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"user": user, "token": token})
}

// GetProfile returns a user profile.
// @Summary Get a user profile
// @Tags users
// @Param key path string true "user id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{key} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}

// GetUserContent returns the participated/supported content split.
// @Summary Get a user's contributions
// @Tags users
// @Param key path string true "user id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{key}/content [get]
func (h *Handler) GetUserContent(c *gin.Context) {
	content, err := h.users.GetUserContent(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, content)
}

// DeleteUser anonymizes an account. Only the account owner may do it.
// @Summary Delete (anonymize) an account
// @Tags users
// @Param key path string true "user id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{key} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	key := c.Param("key")
	if middleware.UserID(c) != key {
		response.Forbidden(c, "accounts can only be deleted by their owner")
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), key); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
