package controllers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/middleware"
	"route_dispatch/internal/models"
	"route_dispatch/internal/store"
)

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperr.Validation("Validation failed", map[string]string{"id": "id must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

// parsePage reads page and pageSize from the query string. Missing values
// take the defaults; non-numeric values are rejected.
func parsePage(c *gin.Context, maxSize int) (store.Page, bool) {
	fields := map[string]string{}
	number := queryInt(c, "page", fields)
	size := queryInt(c, "pageSize", fields)
	if len(fields) > 0 {
		respondError(c, apperr.Validation("Validation failed", fields))
		return store.Page{}, false
	}
	return store.NewPage(number, size, maxSize), true
}

func queryInt(c *gin.Context, key string, fields map[string]string) int {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fields[key] = key + " must be a number"
		return 0
	}
	return v
}

// callerAdmin returns the admin set by the admin guard.
func callerAdmin(c *gin.Context) (*models.Admin, bool) {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		respondError(c, apperr.Unauthorized("Unauthorized"))
	}
	return admin, ok
}

// requireOwnTenant lets super-admins act for any admin and everyone else
// only for themselves.
func requireOwnTenant(c *gin.Context, adminID uint) bool {
	admin, ok := callerAdmin(c)
	if !ok {
		return false
	}
	if admin.IsSuperAdmin() || admin.ID == adminID {
		return true
	}
	respondError(c, apperr.Forbidden("You can only act on your own account"))
	return false
}

// ownerLookup resolves the admin that owns the row with the given id.
type ownerLookup func(ctx context.Context, id uint) (uint, error)

// requireOwner is requireOwnTenant for an existing row. Super-admins skip
// the lookup; for anyone else a missing row is NotFound.
func requireOwner(c *gin.Context, id uint, owner ownerLookup) bool {
	admin, ok := callerAdmin(c)
	if !ok {
		return false
	}
	if admin.IsSuperAdmin() {
		return true
	}
	adminID, err := owner(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return false
	}
	return requireOwnTenant(c, adminID)
}

func currentAdminID(c *gin.Context) uint {
	if admin, ok := middleware.CurrentAdmin(c); ok {
		return admin.ID
	}
	return 0
}

