package handlers

import (
	"dofe-kas/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// actorFromCtx builds the caller identity set by the auth middleware.
func actorFromCtx(c *fiber.Ctx) domain.Actor {
	userID, _ := c.Locals("userID").(uint)
	nama, _ := c.Locals("nama").(string)
	role, _ := c.Locals("role").(string)

	return domain.Actor{
		ID:   userID,
		Nama: nama,
		Role: domain.Role(role),
	}
}
