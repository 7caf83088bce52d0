package routes

import (
	"io"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"route_dispatch/internal/controllers"
	"route_dispatch/internal/middleware"
)

// Options carries the router's cross-cutting settings.
type Options struct {
	LogWriter   io.Writer
	CORSOrigins []string
}

// SetupRouter builds the engine with every route registered. It does not
// start listening.
func SetupRouter(d controllers.Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if opts.LogWriter != nil {
		r.Use(ginlogger.SetLogger(
			ginlogger.WithWriter(opts.LogWriter),
			ginlogger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
				return l.With().Str("request_id", middleware.GetRequestID(c)).Logger()
			}),
			ginlogger.WithSkipPath([]string{"/health"}),
		))
	}
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.GET("/health", controllers.Health(d))

	v1 := r.Group("/v1")
	AdminRoutes(v1, d)
	UserRoutes(v1, d)
	RouteRoutes(v1, d)
	StopRoutes(v1, d)
	DeliveryRoutes(v1, d)
	WebSocketRoutes(r, d)

	return r
}

func requireAdmin(d controllers.Deps) gin.HandlerFunc {
	return middleware.RequireAdmin(d.Tokens, d.Services.Admins)
}
