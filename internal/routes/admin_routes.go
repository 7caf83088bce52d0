package routes

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/controllers"
	"route_dispatch/internal/middleware"
)

func AdminRoutes(r *gin.RouterGroup, d controllers.Deps) {
	h := controllers.NewAdminController(d)

	admin := r.Group("/admin")
	admin.POST("/login", h.Login)

	authed := admin.Group("")
	authed.Use(requireAdmin(d))
	{
		authed.PATCH("/change-password", h.ChangePassword)
		authed.GET("/:id/users", h.Users)
		authed.GET("/:id/routes", h.Routes)
	}

	super := admin.Group("")
	super.Use(requireAdmin(d), middleware.RequireSuperAdmin())
	{
		super.GET("", h.List)
		super.POST("", h.Create)
		super.GET("/:id", h.Get)
		super.PUT("/:id", h.Update)
		super.DELETE("/:id", h.Delete)
	}
}
