package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"route_dispatch/internal/dto"
	"route_dispatch/internal/models"
)

type RouteController struct {
	Deps
}

func NewRouteController(d Deps) *RouteController {
	return &RouteController{Deps: d}
}

// Create stores a route with its full stop sequence.
func (h *RouteController) Create(c *gin.Context) {
	var in dto.RouteCreateInput
	if !bindJSON(c, &in) {
		return
	}
	if !requireOwnTenant(c, in.AdminID) {
		return
	}
	route, err := h.Services.Routes.Store(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"route_id": route.ID,
		"stops":    len(route.Stops),
	}).Info("CreateRoute: route stored")
	respondCreated(c, dto.FromRoute(*route), "Route and stops inserted successfully")
}

func (h *RouteController) List(c *gin.Context) {
	admin, ok := callerAdmin(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.maxPageSize())
	if !ok {
		return
	}
	var rows []models.Route
	var err error
	if admin.IsSuperAdmin() {
		rows, err = h.Services.Routes.GetAll(c.Request.Context(), page)
	} else {
		rows, err = h.Services.Routes.GetAllByAdmin(c.Request.Context(), admin.ID, page)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromRoutes(rows), "Routes fetched successfully")
}

func (h *RouteController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Routes.Owner) {
		return
	}
	route, err := h.Services.Routes.GetOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromRoute(*route), "Route fetched successfully")
}

// Update patches the route and replaces its stops.
func (h *RouteController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Routes.Owner) {
		return
	}
	var in dto.RouteUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	route, err := h.Services.Routes.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromRoute(*route), "Route updated successfully")
}

func (h *RouteController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Routes.Owner) {
		return
	}
	if err := h.Services.Routes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil, "Route deleted successfully")
}
