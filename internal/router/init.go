package router

import (
	"github.com/oksasatya/go-task-manager/internal/container"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
)

type authModuleDeps struct {
	Handler *handlers.AuthHandler
}

type taskModuleDeps struct {
	Handler *handlers.TaskHandler
}

func buildAuthDeps(c *container.Container) authModuleDeps {
	return authModuleDeps{Handler: handlers.NewAuthHandler(c.AuthService(), c.Logger)}
}

func buildTaskDeps(c *container.Container) taskModuleDeps {
	return taskModuleDeps{Handler: handlers.NewTaskHandler(c.TaskService(), c.Logger)}
}

// InitModules builds every feature module from the container and registers it with the router registry.
// Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler()))
	r.Add(modules.NewAuthModule(buildAuthDeps(c).Handler, c.JWT))
	r.Add(modules.NewTaskModule(buildTaskDeps(c).Handler, c.JWT))
}
