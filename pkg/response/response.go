package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ideosphere/ideosphere/pkg/errs"
)

// Response is the uniform JSON envelope returned by every endpoint.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "ok", Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: http.StatusForbidden, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Message: msg})
}

func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: err.Error()})
}

// FromError maps a tagged service error onto the matching HTTP status.
func FromError(c *gin.Context, err error) {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		NotFound(c, err.Error())
	case errs.KindValidation:
		BadRequest(c, err.Error())
	case errs.KindTransport:
		c.JSON(http.StatusBadGateway, Response{Code: http.StatusBadGateway, Message: err.Error()})
	default:
		InternalError(c, err)
	}
}
