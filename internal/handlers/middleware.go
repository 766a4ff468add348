package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgrid/campus-chat/internal/models"
	"github.com/campusgrid/campus-chat/internal/realtime"
)

const identityKey = "identity"

// JWTAuth guards the REST surface with the same verifier the websocket
// handshake uses.
func JWTAuth(verifier realtime.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization header"})
		}
		ident, err := verifier.Verify(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals(identityKey, ident)
		return c.Next()
	}
}

func identityFrom(c *fiber.Ctx) (models.Identity, bool) {
	ident, ok := c.Locals(identityKey).(models.Identity)
	return ident, ok
}
