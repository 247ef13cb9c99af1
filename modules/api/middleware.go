package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// PrincipalKey is the Fiber locals key holding the authenticated user id.
	PrincipalKey = "principal"
	// TokenCookie is the cookie accepted in place of the Authorization header.
	TokenCookie = "token"
)

// AuthMiddleware resolves the principal from a bearer token or the token
// cookie and rejects the request when neither is valid.
func AuthMiddleware(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := extractToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication token is required",
			})
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(PrincipalKey, claims.Subject)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, bool) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		return token, found && token != ""
	}
	token := c.Cookies(TokenCookie)
	return token, token != ""
}

// principal returns the user id stored by AuthMiddleware.
func principal(c *fiber.Ctx) string {
	id, _ := c.Locals(PrincipalKey).(string)
	return id
}
