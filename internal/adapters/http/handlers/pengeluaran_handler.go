package handlers

import (
	"strconv"

	"dofe-kas/internal/core/services"
	"dofe-kas/internal/pkg/response"
	"dofe-kas/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// PengeluaranHandler handles expense ledger endpoints
type PengeluaranHandler struct {
	pengeluaranService *services.PengeluaranService
}

// NewPengeluaranHandler creates a new expense handler
func NewPengeluaranHandler(pengeluaranService *services.PengeluaranService) *PengeluaranHandler {
	return &PengeluaranHandler{pengeluaranService: pengeluaranService}
}

// CreatePengeluaranRequest represents an expense creation request body
type CreatePengeluaranRequest struct {
	Jumlah    int64  `json:"jumlah" validate:"required,gt=0"`
	Deskripsi string `json:"deskripsi" validate:"required"`
}

// List handles expense listing
// @Summary List expenses
// @Description Get all expenses, newest first
// @Tags Pengeluaran
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /pengeluaran [get]
func (h *PengeluaranHandler) List(c *fiber.Ctx) error {
	records, err := h.pengeluaranService.List(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Daftar pengeluaran", records)
}

// Create handles expense creation
// @Summary Record expense
// @Description Record a new expense (bendahara only)
// @Tags Pengeluaran
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePengeluaranRequest true "Expense data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /pengeluaran [post]
func (h *PengeluaranHandler) Create(c *fiber.Ctx) error {
	var req CreatePengeluaranRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	caller := actorFromCtx(c)
	p, err := h.pengeluaranService.Record(c.Context(), caller, req.Jumlah, req.Deskripsi)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Created(c, "Pengeluaran dicatat", p)
}

// Delete handles expense deletion
// @Summary Delete expense
// @Description Remove an expense record (bendahara only)
// @Tags Pengeluaran
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pengeluaran ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pengeluaran/{id} [delete]
func (h *PengeluaranHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pengeluaran ID")
	}

	caller := actorFromCtx(c)
	if err := h.pengeluaranService.Remove(c.Context(), caller, uint(id)); err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Pengeluaran dihapus", nil)
}
