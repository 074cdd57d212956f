package middleware

import (
	"strings"

	"travel-assistant/constants"
	"travel-assistant/services/token"
	"travel-assistant/types"

	"github.com/gofiber/fiber/v2"
)

// IsAuthenticated checks for a valid access token in the Authorization
// header, falling back to the access cookie, and stores the claims in
// c.Locals("user").
func IsAuthenticated(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(401).JSON(types.ErrorResponse{
					Message: "Invalid authorization header format",
					Status:  401,
				})
			}
			tokenString = tokenParts[1]
		} else {
			tokenString = c.Cookies(constants.CookieAccess)
			if tokenString == "" {
				return c.Status(401).JSON(types.ErrorResponse{
					Message: "Authorization token missing",
					Status:  401,
				})
			}
		}

		claims, err := tokens.VerifyAccess(tokenString)
		if err != nil {
			return c.Status(401).JSON(types.ErrorResponse{
				Message: "Invalid or expired token",
				Status:  401,
			})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}
