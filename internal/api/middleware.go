package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Akki1725/socially/internal/auth"
)

const localUserID = "user_id"

// JWTAuth resolves the bearer token to a user id and stores it in the
// request locals. Everything behind it can assume an authenticated caller.
func JWTAuth(validator *auth.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization"})
		}
		userID, err := validator.Validate(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals(localUserID, userID)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) string {
	uid, _ := c.Locals(localUserID).(string)
	return uid
}
