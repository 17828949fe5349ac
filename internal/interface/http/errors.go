package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

const (
	msgServerError     = "Server error"
	msgTokenInvalid    = "Token is not valid"
	msgNotAuthorized   = "Not authorized"
	msgTaskNotFound    = "Task not found"
	msgDuplicateUser   = "User with this email or username already exists"
	msgBadCredentials  = "Invalid credentials"
	msgInvalidPayload  = "Invalid request payload"
	msgTaskDeleted     = "Task deleted successfully"
	msgServerIsRunning = "Task Manager Server is running!"
)

// writeError maps service errors onto HTTP responses; unknown errors are logged and hidden
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Abort(c, http.StatusBadRequest, ve.Message, ve.Fields)
	case errors.Is(err, application.ErrDuplicateIdentity):
		response.Abort(c, http.StatusBadRequest, msgDuplicateUser, nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Abort(c, http.StatusBadRequest, msgBadCredentials, nil)
	case errors.Is(err, application.ErrUnauthenticated), errors.Is(err, helpers.ErrInvalidToken):
		response.Abort(c, http.StatusUnauthorized, msgTokenInvalid, nil)
	case errors.Is(err, application.ErrForbidden):
		response.Abort(c, http.StatusForbidden, msgNotAuthorized, nil)
	case errors.Is(err, application.ErrNotFound):
		response.Abort(c, http.StatusNotFound, msgTaskNotFound, nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		response.Abort(c, http.StatusInternalServerError, msgServerError, nil)
	}
}
