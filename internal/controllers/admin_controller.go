package controllers

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/middleware"
)

type AdminController struct {
	Deps
}

func NewAdminController(d Deps) *AdminController {
	return &AdminController{Deps: d}
}

func (h *AdminController) Login(c *gin.Context) {
	var in dto.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	admin, err := h.Services.Admins.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	token, exp, err := h.Tokens.Generate(middleware.KindAdmin, admin.ID)
	if err != nil {
		respondError(c, apperr.Internal("could not generate token", err))
		return
	}
	out := dto.FromAdmin(*admin)
	respondOK(c, dto.LoginResponse{Token: token, ExpiresAt: exp, Admin: &out}, "Login successful")
}

func (h *AdminController) ChangePassword(c *gin.Context) {
	var in dto.ChangePasswordInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Services.Admins.ChangePassword(c.Request.Context(), currentAdminID(c), in); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil, "Password changed successfully")
}

func (h *AdminController) List(c *gin.Context) {
	page, ok := parsePage(c, h.maxPageSize())
	if !ok {
		return
	}
	rows, err := h.Services.Admins.GetAll(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromAdmins(rows), "Admins fetched successfully")
}

func (h *AdminController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	admin, err := h.Services.Admins.GetOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromAdmin(*admin), "Admin fetched successfully")
}

func (h *AdminController) Create(c *gin.Context) {
	var in dto.AdminCreateInput
	if !bindJSON(c, &in) {
		return
	}
	admin, err := h.Services.Admins.Store(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto.FromAdmin(*admin), "Admin created successfully")
}

func (h *AdminController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in dto.AdminUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	admin, err := h.Services.Admins.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromAdmin(*admin), "Admin updated successfully")
}

func (h *AdminController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Services.Admins.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil, "Admin deleted successfully")
}

// Users lists the users of the admin in the path.
func (h *AdminController) Users(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwnTenant(c, id) {
		return
	}
	page, ok := parsePage(c, h.maxPageSize())
	if !ok {
		return
	}
	rows, err := h.Services.Users.GetAllByAdmin(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromUsers(rows), "Users fetched successfully")
}

// Routes lists the routes of the admin in the path.
func (h *AdminController) Routes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwnTenant(c, id) {
		return
	}
	page, ok := parsePage(c, h.maxPageSize())
	if !ok {
		return
	}
	rows, err := h.Services.Routes.GetAllByAdmin(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromRoutes(rows), "Routes fetched successfully")
}
