package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhub-backend/pkg/logger"
)

// APIError is the single failure taxonomy crossing the handler boundary.
// Anything that is not an *APIError is treated as an internal error: logged
// server-side in full, reported to the client with a generic message only.
type APIError struct {
	StatusCode int
	Message    string
	Errs       interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

func New(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

func BadRequest(message string) *APIError {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *APIError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *APIError {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *APIError {
	return New(http.StatusConflict, message)
}

// Success writes the success envelope. Extra payload fields are merged into
// the top-level object.
func Success(c *gin.Context, statusCode int, message string, data gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Error translates any failure into the wire envelope
// {success:false, statusCode, message, errors}. Unrecognized errors are
// coerced to 500 with a generic message so internals never leak.
func Error(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{
			"success":    false,
			"statusCode": apiErr.StatusCode,
			"message":    apiErr.Message,
			"errors":     apiErr.Errs,
		})
		return
	}

	logger.Log.Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success":    false,
		"statusCode": http.StatusInternalServerError,
		"message":    "Internal Server Error",
		"errors":     nil,
	})
}
