package routes

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/controllers"
)

func DeliveryRoutes(r *gin.RouterGroup, d controllers.Deps) {
	h := controllers.NewDeliveryController(d)

	delivery := r.Group("/delivery")
	delivery.Use(requireAdmin(d))
	{
		delivery.POST("", h.Create)
		delivery.GET("", h.List)
		delivery.GET("/:id", h.Get)
		delivery.PUT("/:id", h.Update)
		delivery.DELETE("/:id", h.Delete)
	}
}
