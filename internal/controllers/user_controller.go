package controllers

import (
	"github.com/gin-gonic/gin"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/dto"
	"route_dispatch/internal/middleware"
	"route_dispatch/internal/models"
)

type UserController struct {
	Deps
}

func NewUserController(d Deps) *UserController {
	return &UserController{Deps: d}
}

func (h *UserController) Login(c *gin.Context) {
	var in dto.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.Services.Users.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	token, exp, err := h.Tokens.Generate(middleware.KindUser, user.ID)
	if err != nil {
		respondError(c, apperr.Internal("could not generate token", err))
		return
	}
	out := dto.FromUser(*user)
	respondOK(c, dto.LoginResponse{Token: token, ExpiresAt: exp, User: &out}, "Login successful")
}

func (h *UserController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperr.Unauthorized("Unauthorized"))
		return
	}
	respondOK(c, dto.FromUser(*user), "User fetched successfully")
}

func (h *UserController) List(c *gin.Context) {
	admin, ok := callerAdmin(c)
	if !ok {
		return
	}
	page, ok := parsePage(c, h.maxPageSize())
	if !ok {
		return
	}
	var rows []models.User
	var err error
	if admin.IsSuperAdmin() {
		rows, err = h.Services.Users.GetAll(c.Request.Context(), page)
	} else {
		rows, err = h.Services.Users.GetAllByAdmin(c.Request.Context(), admin.ID, page)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromUsers(rows), "Users fetched successfully")
}

func (h *UserController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Users.Owner) {
		return
	}
	user, err := h.Services.Users.GetOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromUser(*user), "User fetched successfully")
}

// Create adds a user under admin_id, or under the caller when admin_id is
// omitted.
func (h *UserController) Create(c *gin.Context) {
	var in dto.UserCreateInput
	if !bindJSON(c, &in) {
		return
	}
	if in.AdminID == 0 {
		in.AdminID = currentAdminID(c)
	}
	if !requireOwnTenant(c, in.AdminID) {
		return
	}
	user, err := h.Services.Users.Store(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, dto.FromUser(*user), "User created successfully")
}

func (h *UserController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Users.Owner) {
		return
	}
	var in dto.UserUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.Services.Users.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.FromUser(*user), "User updated successfully")
}

func (h *UserController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !requireOwner(c, id, h.Services.Users.Owner) {
		return
	}
	if err := h.Services.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil, "User deleted successfully")
}
