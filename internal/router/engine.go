package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/container"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// New builds the Gin engine with global middleware and every module registered
func New(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		helpers.LogError(c.Logger, "panic recovered", nil, logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"panic":      recovered,
		})
		response.Abort(ctx, http.StatusInternalServerError, "Something went wrong!", nil)
	}))
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(c.Config.CORSOrigins())))
	if c.Config.Env == "development" || c.Config.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
