package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (auth, tasks, health) that mounts its routes on the /api group.
// Modules own their route-level middleware such as BearerAuth.
type Module interface {
	Register(api *gin.RouterGroup)
}
