// file: internal/server/error_handler.go
// version: 2.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/kitfinder/internal/server/middleware"
)

// ErrorResponse provides a consistent error response format
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondWithError sends a standardized error response and logs the error
func RespondWithError(c *gin.Context, statusCode int, message string, code string) {
	logErrorWithContext(c, statusCode, message)

	c.JSON(statusCode, ErrorResponse{
		Error:     message,
		Code:      code,
		Status:    statusCode,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondWithBadRequest sends a 400 Bad Request error response
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message, "BAD_REQUEST")
}

// RespondWithValidationError sends a 400 for a failed ValidationError, or a
// generic validation failure for any other error.
func RespondWithValidationError(c *gin.Context, err error) {
	var ve ValidationError
	if errors.As(err, &ve) {
		RespondWithError(c, http.StatusBadRequest, "validation error: "+ve.Error(), "VALIDATION_ERROR")
		return
	}
	RespondWithError(c, http.StatusBadRequest, "validation error: "+err.Error(), "VALIDATION_ERROR")
}

// RespondWithServiceUnavailable sends a 503 when a dependency is not ready
func RespondWithServiceUnavailable(c *gin.Context, message string, code string) {
	RespondWithError(c, http.StatusServiceUnavailable, message, code)
}

// RespondWithInternalError sends a 500 Internal Server Error response
func RespondWithInternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// logErrorWithContext logs an error with request context for debugging
func logErrorWithContext(c *gin.Context, statusCode int, message string) {
	logLevel := "WARN"
	if statusCode >= 500 {
		logLevel = "ERROR"
	}

	log.Printf("[%s] %s %s %d - %s (from %s) [request-id: %s]",
		logLevel, c.Request.Method, c.Request.URL.Path, statusCode, message, c.ClientIP(), middleware.GetRequestID(c))
}

// HandleBindError responds to a request body that could not be decoded.
// It returns false when err is nil so callers can write
// `if HandleBindError(c, err) { return }`.
func HandleBindError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondWithError(c, http.StatusRequestEntityTooLarge, "request body too large", "BODY_TOO_LARGE")
		return true
	}
	RespondWithBadRequest(c, "invalid request: "+err.Error())
	return true
}
