package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/events"
	"route_dispatch/internal/middleware"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth is the token query parameter; origins are not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketController struct {
	Deps
}

func NewWebSocketController(d Deps) *WebSocketController {
	return &WebSocketController{Deps: d}
}

// Routes streams route, stop and delivery change events to an admin.
// Super-admins receive the events of every tenant.
func (h *WebSocketController) Routes(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		respondError(c, apperr.Unauthorized("Missing authentication token"))
		return
	}
	kind, id, err := h.Tokens.Parse(raw)
	if err != nil || kind != middleware.KindAdmin {
		logrus.WithError(err).Warn("WebSocket connection attempt: invalid token")
		respondError(c, apperr.Unauthorized("Invalid or expired token"))
		return
	}
	admin, err := h.Services.Admins.Authenticate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	logrus.WithFields(logrus.Fields{
		"admin_id": admin.ID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Admin WebSocket connection established.")

	h.Hub.Serve(conn, events.Subscriber{AdminID: admin.ID, All: admin.IsSuperAdmin()})
}
