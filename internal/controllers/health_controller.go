package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Health reports liveness and whether the database answers a ping.
func Health(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		status := http.StatusOK
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logrus.WithError(err).Warn("health: database ping failed")
			dbStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"success": status == http.StatusOK,
			"data":    gin.H{"status": "ok", "database": dbStatus},
			"message": "health check",
		})
	}
}
