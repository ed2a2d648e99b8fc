package handlers

import (
	"time"

	"dofe-kas/internal/core/services"
	"dofe-kas/internal/pkg/pagination"
	"dofe-kas/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles audit log listing with filters
// @Summary List audit logs
// @Description Get paginated audit entries, newest first (pengurus only)
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param action query string false "Action filter, or 'all'"
// @Param search query string false "Search in description, actor and target"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	input := &services.QueryInput{
		Action: c.Query("action"),
		Search: c.Query("search"),
		Params: pagination.GetParams(c),
	}

	if raw := c.Query("startDate"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return response.BadRequest(c, "startDate harus berformat YYYY-MM-DD")
		}
		input.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return response.BadRequest(c, "endDate harus berformat YYYY-MM-DD")
		}
		// Inclusive end of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		input.EndDate = &end
	}

	caller := actorFromCtx(c)
	result, err := h.auditService.Query(c.Context(), caller, input)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Riwayat aktivitas", result)
}

// Stats handles audit trail statistics
// @Summary Audit statistics
// @Description Get audit trail counters (pengurus only)
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /audit-logs/stats [get]
func (h *AuditHandler) Stats(c *fiber.Ctx) error {
	caller := actorFromCtx(c)
	stats, err := h.auditService.Stats(c.Context(), caller)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Statistik audit", stats)
}
