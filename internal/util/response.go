package util

import (
	"errors"
	"meal_streak_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// ServiceUnavailable tells the client the store failed and the view can be reloaded.
func ServiceUnavailable(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, "Storage unavailable, please retry")
}

// HandleError maps service errors onto HTTP responses.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrMealNotFound),
		errors.Is(err, ErrTemplateNotFound),
		errors.Is(err, ErrAchievementMissing):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		logger.Log.Error("Store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		ServiceUnavailable(c)
	default:
		LogInternalError(c, err)
	}
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}
