package handlers

import (
	"strconv"

	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/core/services"
	"dofe-kas/internal/pkg/response"
	"dofe-kas/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// KasHandler handles dues ledger endpoints
type KasHandler struct {
	kasService     *services.KasService
	summaryService *services.SummaryService
}

// NewKasHandler creates a new kas handler
func NewKasHandler(kasService *services.KasService, summaryService *services.SummaryService) *KasHandler {
	return &KasHandler{
		kasService:     kasService,
		summaryService: summaryService,
	}
}

// ManualKasRequest represents a manual dues entry request body
type ManualKasRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Bulan  string `json:"bulan" validate:"required"`
	Jumlah int64  `json:"jumlah" validate:"required,gt=0"`
}

// VerifyKasRequest represents a dues verification request body
type VerifyKasRequest struct {
	Status  string  `json:"status" validate:"required,oneof=diterima ditolak"`
	Catatan *string `json:"catatan" validate:"omitempty"`
}

// Submit handles a member's dues submission with proof image
// @Summary Submit dues payment
// @Description Submit a monthly dues payment with a proof image
// @Tags Kas
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param bulan formData string true "Month name (Januari..Desember)"
// @Param jumlah formData int true "Amount in rupiah"
// @Param bukti formData file true "Proof image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /kas [post]
func (h *KasHandler) Submit(c *fiber.Ctx) error {
	bulan := c.FormValue("bulan")
	jumlah, err := strconv.ParseInt(c.FormValue("jumlah"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Jumlah tidak valid")
	}

	file, err := c.FormFile("bukti")
	if err != nil {
		return response.BadRequest(c, "Bukti pembayaran wajib diunggah")
	}
	src, err := file.Open()
	if err != nil {
		return response.BadRequest(c, "Bukti pembayaran tidak dapat dibaca")
	}
	defer src.Close()

	caller := actorFromCtx(c)
	kas, err := h.kasService.Submit(c.Context(), caller, &services.SubmitInput{
		Bulan:     bulan,
		Jumlah:    jumlah,
		Proof:     src,
		ProofName: file.Filename,
	})
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Created(c, "Pembayaran kas menunggu verifikasi", kas)
}

// Manual handles a bendahara's direct dues entry
// @Summary Record dues manually
// @Description Record an accepted dues payment without proof (bendahara only)
// @Tags Kas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ManualKasRequest true "Manual entry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /kas/manual [post]
func (h *KasHandler) Manual(c *fiber.Ctx) error {
	var req ManualKasRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	caller := actorFromCtx(c)
	kas, err := h.kasService.ManualRecord(c.Context(), caller, req.UserID, req.Bulan, req.Jumlah)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Created(c, "Pembayaran kas dicatat", kas)
}

// Verify handles dues verification
// @Summary Verify dues payment
// @Description Accept or reject a pending dues payment (bendahara only)
// @Tags Kas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Kas ID"
// @Param body body VerifyKasRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /kas/bendahara/{id} [patch]
func (h *KasHandler) Verify(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid kas ID")
	}

	var req VerifyKasRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	caller := actorFromCtx(c)
	kas, err := h.kasService.Verify(c.Context(), caller, uint(id), domain.KasStatus(req.Status), req.Catatan)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Pembayaran kas diverifikasi", kas)
}

// Delete handles dues record deletion
// @Summary Delete dues record
// @Description Remove a dues record (bendahara only)
// @Tags Kas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Kas ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /kas/staff/{id} [delete]
func (h *KasHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid kas ID")
	}

	caller := actorFromCtx(c)
	if err := h.kasService.Remove(c.Context(), caller, uint(id)); err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Pembayaran kas dihapus", nil)
}

// GetStaff handles listing all members' dues
// @Summary List all dues
// @Description Get every member's dues records (pengurus only)
// @Tags Kas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /kas/staff [get]
func (h *KasHandler) GetStaff(c *fiber.Ctx) error {
	caller := actorFromCtx(c)
	records, err := h.kasService.ListAll(c.Context(), caller)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Daftar kas seluruh anggota", records)
}

// GetMy handles listing the caller's own dues
// @Summary List my dues
// @Description Get the authenticated member's dues records
// @Tags Kas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /kas/my [get]
func (h *KasHandler) GetMy(c *fiber.Ctx) error {
	caller := actorFromCtx(c)
	records, err := h.kasService.ListMine(c.Context(), caller)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Daftar kas saya", records)
}

// Summary handles the treasury balance
// @Summary Treasury summary
// @Description Get total income, total expense and current balance
// @Tags Kas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /kas/summary [get]
func (h *KasHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.summaryService.Summary(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Ringkasan kas", summary)
}
