// Package controllers holds the gin handlers. Handlers bind and validate the
// payload, call one service operation, and render the result through the
// shared response envelope.
package controllers

import (
	"gorm.io/gorm"

	"route_dispatch/internal/events"
	"route_dispatch/internal/middleware"
	"route_dispatch/internal/services"
	"route_dispatch/internal/store"
)

// Deps is what the handlers need from the running process.
type Deps struct {
	DB          *gorm.DB
	Services    *services.Services
	Tokens      *middleware.TokenIssuer
	Hub         *events.Hub
	MaxPageSize int
}

func (d Deps) maxPageSize() int {
	if d.MaxPageSize <= 0 {
		return store.MaxPageSize
	}
	return d.MaxPageSize
}
