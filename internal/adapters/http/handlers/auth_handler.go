package handlers

import (
	"errors"
	"strings"
	"time"

	"dofe-kas/internal/config"
	"dofe-kas/internal/core/domain"
	"dofe-kas/internal/core/services"
	"dofe-kas/internal/pkg/response"
	"dofe-kas/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	NIM      string `json:"nim" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents password change request body
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
	ConfPass string `json:"confPass" validate:"required"`
}

// ForgotPasswordRequest represents forgot password request body
type ForgotPasswordRequest struct {
	NIM string `json:"nim" validate:"required"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	ConfPass string `json:"confPass" validate:"required"`
}

// Login handles member login
// @Summary Login
// @Description Authenticate by NIM and password, returns access token and sets refresh cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.authService.Login(c.Context(), strings.TrimSpace(req.NIM), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User tidak ditemukan")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Password salah")
		default:
			return mapDomainError(c, err)
		}
	}

	h.setRefreshCookie(c, result.RefreshToken)

	return response.Success(c, "Login berhasil", fiber.Map{
		"accessToken": result.AccessToken,
		"user":        result.User,
	})
}

// RefreshToken handles access token rotation
// @Summary Refresh access token
// @Description Rotate the access token using the refresh cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /refreshToken [get]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refreshToken")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	accessToken, err := h.authService.Refresh(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.clearRefreshCookie(c)
			return response.Unauthorized(c, "Sesi berakhir, silakan login kembali")
		case errors.Is(err, domain.ErrTokenInvalid):
			h.clearRefreshCookie(c)
			return response.Unauthorized(c, "Invalid refresh token")
		default:
			return mapDomainError(c, err)
		}
	}

	return response.Success(c, "Token refreshed", fiber.Map{
		"accessToken": accessToken,
	})
}

// Logout handles member logout
// @Summary Logout
// @Description Invalidate the refresh credential and clear the cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Success 204 "No active session"
// @Router /logout [delete]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refreshToken")
	if refreshToken == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}

	// An unknown credential still clears the cookie
	_ = h.authService.Logout(c.Context(), refreshToken)

	h.clearRefreshCookie(c)
	return response.Success(c, "Logout berhasil", nil)
}

// ChangePassword handles authenticated password change
// @Summary Change password
// @Description Set a new password for the authenticated member
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "New password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /NewPass [patch]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	caller := actorFromCtx(c)
	if err := h.authService.ChangePassword(c.Context(), caller, req.Password, req.ConfPass); err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Password berhasil diperbarui", nil)
}

// ForgotPassword handles password reset requests
// @Summary Request password reset
// @Description Send a reset link to the member's student email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Member NIM"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.authService.RequestPasswordReset(c.Context(), strings.TrimSpace(req.NIM)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User dengan NIM tersebut tidak ditemukan")
		}
		return response.InternalServerError(c, "Gagal mengirim email reset")
	}

	return response.Success(c, "Link reset password telah dikirim ke email kampus", nil)
}

// ResetPassword handles password reset with a mailed token
// @Summary Reset password
// @Description Set a new password using a reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	err := h.authService.ResetPassword(c.Context(), req.Token, req.Password, req.ConfPass)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			return response.Unauthorized(c, "Link reset sudah kedaluwarsa")
		case errors.Is(err, domain.ErrTokenInvalid):
			return response.Unauthorized(c, "Link reset tidak valid")
		default:
			return mapDomainError(c, err)
		}
	}

	return response.Success(c, "Password berhasil direset, silakan login kembali", nil)
}

// setRefreshCookie sets the HTTP-only refresh cookie
func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Expires:  time.Now().Add(time.Duration(h.cfg.JWT.RefreshTokenHours) * time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Path:     "/",
	})
}

// clearRefreshCookie removes the refresh cookie
func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "refreshToken",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Path:     "/",
	})
}
