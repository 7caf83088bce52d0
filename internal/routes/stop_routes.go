package routes

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/controllers"
	"route_dispatch/internal/middleware"
)

func StopRoutes(r *gin.RouterGroup, d controllers.Deps) {
	h := controllers.NewStopController(d)

	stop := r.Group("/stop")
	stop.Use(requireAdmin(d))
	{
		stop.POST("", h.Create)
		stop.GET("", h.List)
		stop.GET("/:id", h.Get)
		stop.PUT("/:id", h.Update)
		stop.DELETE("/:id", middleware.RequireSuperAdmin(), h.Delete)
	}
}
