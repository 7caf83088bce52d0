package routes

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/controllers"
	"route_dispatch/internal/middleware"
)

func UserRoutes(r *gin.RouterGroup, d controllers.Deps) {
	h := controllers.NewUserController(d)

	user := r.Group("/user")
	user.POST("/login", h.Login)
	user.GET("/me", middleware.RequireUser(d.Tokens, d.Services.Users), h.Me)

	authed := user.Group("")
	authed.Use(requireAdmin(d))
	{
		authed.POST("", h.Create)
		authed.GET("", h.List)
		authed.GET("/:id", h.Get)
		authed.PUT("/:id", h.Update)
		authed.DELETE("/:id", middleware.RequireSuperAdmin(), h.Delete)
	}
}
