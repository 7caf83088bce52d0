package controllers

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/dto"
	"route_dispatch/internal/models"
)

type DeliveryController struct {
	Deps
}

func NewDeliveryController(d Deps) *DeliveryController {
	return &DeliveryController{Deps: d}
}

func (h *DeliveryController) Create(c *gin.Context) {
	var in dto.DeliveryCreateInput
	if !bindJSON(c, &in) || !requireOwner(c, in.StopID, h.Services.Stops.Owner) {
		return
	}
	d, err := h.Services.Deliveries.Store(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto.FromDelivery(*d), "Delivery created successfully")
}

func (h *DeliveryController) List(c *gin.Context) {
	admin, ok := callerAdmin(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.maxPageSize())
	if !ok {
		return
	}
	var rows []models.Delivery
	var err error
	if admin.IsSuperAdmin() {
		rows, err = h.Services.Deliveries.GetAll(c.Request.Context(), page)
	} else {
		rows, err = h.Services.Deliveries.GetAllByAdmin(c.Request.Context(), admin.ID, page)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromDeliveries(rows), "Deliveries fetched successfully")
}

func (h *DeliveryController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Deliveries.Owner) {
		return
	}
	d, err := h.Services.Deliveries.GetOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromDelivery(*d), "Delivery fetched successfully")
}

func (h *DeliveryController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Deliveries.Owner) {
		return
	}
	var in dto.DeliveryUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := h.Services.Deliveries.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromDelivery(*d), "Delivery updated successfully")
}

func (h *DeliveryController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Deliveries.Owner) {
		return
	}
	if err := h.Services.Deliveries.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil, "Delivery deleted successfully")
}
