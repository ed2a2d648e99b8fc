package middleware

import (
	"strings"

	"dofe-kas/internal/config"
	"dofe-kas/internal/pkg/jwt"
	"dofe-kas/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware resolves the caller's identity from the access token and
// stores it in the request context. Authorization itself happens in the
// services through the single capability predicate.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("nama", claims.Nama)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}
