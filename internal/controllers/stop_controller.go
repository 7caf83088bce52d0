package controllers

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/dto"
	"route_dispatch/internal/models"
)

type StopController struct {
	Deps
}

func NewStopController(d Deps) *StopController {
	return &StopController{Deps: d}
}

func (h *StopController) Create(c *gin.Context) {
	var in dto.StopCreateInput
	if !bindJSON(c, &in) || !requireOwner(c, in.RouteID, h.Services.Routes.Owner) {
		return
	}
	stop, err := h.Services.Stops.Store(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto.FromStop(*stop), "Stop created successfully")
}

func (h *StopController) List(c *gin.Context) {
	admin, ok := callerAdmin(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.maxPageSize())
	if !ok {
		return
	}
	var rows []models.Stop
	var err error
	if admin.IsSuperAdmin() {
		rows, err = h.Services.Stops.GetAll(c.Request.Context(), page)
	} else {
		rows, err = h.Services.Stops.GetAllByAdmin(c.Request.Context(), admin.ID, page)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromStops(rows), "Stops fetched successfully")
}

func (h *StopController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Stops.Owner) {
		return
	}
	stop, err := h.Services.Stops.GetOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromStop(*stop), "Stop fetched successfully")
}

func (h *StopController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Stops.Owner) {
		return
	}
	var in dto.StopUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	stop, err := h.Services.Stops.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromStop(*stop), "Stop updated successfully")
}

func (h *StopController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Stops.Owner) {
		return
	}
	if err := h.Services.Stops.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil, "Stop deleted successfully")
}
