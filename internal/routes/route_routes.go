package routes

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/controllers"
)

func RouteRoutes(r *gin.RouterGroup, d controllers.Deps) {
	h := controllers.NewRouteController(d)

	route := r.Group("/route")
	route.Use(requireAdmin(d))
	{
		route.POST("", h.Create)
		route.GET("", h.List)
		route.GET("/:id", h.Get)
		route.PUT("/:id", h.Update)
		route.DELETE("/:id", h.Delete)
	}
}
