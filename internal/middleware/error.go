package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a service error to an HTTP status and client-facing message.
// Server-side failures never expose the underlying error text.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, types.ErrPasswordMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, types.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden, "you do not have permission to modify this resource"
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, types.ErrDuplicateUsername), errors.Is(err, types.ErrDuplicateEmail):
		return http.StatusConflict, err.Error()
	case errors.Is(err, types.ErrAIUnavailable):
		return http.StatusInternalServerError, "Error contacting AI model"
	case errors.Is(err, types.ErrStorage):
		return http.StatusInternalServerError, "failed to store image"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// ErrorHandler writes a JSON error response for the last error a handler
// attached with c.Error, unless the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, msg := StatusFor(err)
		entry := logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		c.JSON(status, ErrorResponse{Error: msg})
	}
}

// Recovery turns a panic into a logged 500 with a JSON body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"panic":  recovered,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	})
}
