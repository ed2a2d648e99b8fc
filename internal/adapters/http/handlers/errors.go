package handlers

import (
	"errors"

	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// mapDomainError translates a domain error into the standard HTTP response.
// Anything unrecognized becomes a generic 500 so internals never leak.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, domain.ErrProofRequired),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrInvalidNote),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrCannotDeleteSelf):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return response.Unauthorized(c, err.Error())

	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Akses ditolak")

	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrKasNotFound),
		errors.Is(err, domain.ErrPengeluaranNotFound):
		return response.NotFound(c, err.Error())

	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNIMAlreadyUsed),
		errors.Is(err, domain.ErrKasAlreadyPaid),
		errors.Is(err, domain.ErrKasNotPending):
		return response.Conflict(c, err.Error())

	case errors.Is(err, domain.ErrUploadFailed):
		return response.BadGateway(c, err.Error())

	default:
		return response.InternalServerError(c, "Terjadi kesalahan")
	}
}
