package handlers

import (
	"strconv"

	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/core/services"
	"dofe-kas/internal/pkg/pagination"
	"dofe-kas/internal/pkg/response"
	"dofe-kas/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles member management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest represents member registration request body
type RegisterRequest struct {
	Nama     string `json:"nama" validate:"required"`
	NIM      string `json:"nim" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	ConfPass string `json:"confPass" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=ketua wakilKetua sekretaris admin bendahara anggota"`
}

// UpdateUserRequest represents member update request body. NIM is immutable.
type UpdateUserRequest struct {
	Nama *string `json:"nama" validate:"omitempty,min=1"`
	Role *string `json:"role" validate:"omitempty,oneof=ketua wakilKetua sekretaris admin bendahara anggota"`
}

// Register handles member registration
// @Summary Register member
// @Description Create a new member account (pengurus only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRequest true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	caller := actorFromCtx(c)
	user, err := h.userService.Register(c.Context(), caller, &services.RegisterInput{
		Nama:     req.Nama,
		NIM:      req.NIM,
		Password: req.Password,
		ConfPass: req.ConfPass,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Created(c, "Anggota berhasil didaftarkan", user)
}

// List handles member listing
// @Summary List members
// @Description Get paginated list of members (pengurus only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	caller := actorFromCtx(c)
	result, err := h.userService.List(c.Context(), caller, params)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Daftar anggota", result)
}

// Update handles member update
// @Summary Update member
// @Description Update a member's name or role (pengurus only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UpdateUserRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	input := &services.UpdateInput{Nama: req.Nama}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	caller := actorFromCtx(c)
	user, err := h.userService.Update(c.Context(), caller, uint(id), input)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Data anggota diperbarui", user)
}

// Delete handles member deletion
// @Summary Delete member
// @Description Remove a member account (pengurus only, self-deletion forbidden)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	caller := actorFromCtx(c)
	if err := h.userService.Delete(c.Context(), caller, uint(id)); err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Anggota berhasil dihapus", nil)
}
