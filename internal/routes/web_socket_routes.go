package routes

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/controllers"
)

// WebSocketRoutes authenticates from the token query parameter inside the
// handler, since the upgrade request carries no Authorization header.
func WebSocketRoutes(r *gin.Engine, d controllers.Deps) {
	h := controllers.NewWebSocketController(d)

	ws := r.Group("/ws")
	{
		ws.GET("/routes", h.Routes)
	}
}
