package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/middleware"
)

const retryAfterSeconds = 1

type successBody struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

type errorBody struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors"`
	Message string            `json:"message"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, successBody{Success: true, Data: data, Message: message})
}

// respondError renders err with the status of its kind. Internal failures
// are logged and their cause is not sent to the client.
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal("Internal server error", err)
	}
	entry := logrus.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"path":       c.FullPath(),
		"kind":       ae.Kind.String(),
	})
	switch ae.Kind {
	case apperr.KindInternal:
		entry.WithError(err).Error("request failed")
		ae = apperr.Internal("Internal server error", nil)
	case apperr.KindTimeout:
		entry.WithError(err).Warn("request timed out")
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	fields := ae.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	c.AbortWithStatusJSON(ae.Kind.Status(), errorBody{Success: false, Errors: fields, Message: ae.Message})
}

func respondCreated(c *gin.Context, data any, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respondOK(c *gin.Context, data any, message string) {
	respond(c, http.StatusOK, data, message)
}
