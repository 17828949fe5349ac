package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request
type ErrorBody struct {
	Status    int               `json:"-"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error builds an error body tagged with the current request id
func Error(ctx *gin.Context, status int, message string, errs map[string]string) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return ErrorBody{
		Status:    status,
		Message:   message,
		Errors:    errs,
		RequestID: ctx.GetString("request_id"),
	}
}

// Abort writes an error body and stops the handler chain
func Abort(ctx *gin.Context, status int, message string, errs map[string]string) {
	resp := Error(ctx, status, message, errs)
	ctx.AbortWithStatusJSON(resp.Status, resp)
}

// Message is a body carrying only a human-readable message
type Message struct {
	Message string `json:"message"`
}

// Success writes data as the whole response body
func Success[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}
