package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/pkg/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Health GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, response.Message{Message: msgServerIsRunning})
}
