package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	memberdomain "github.com/example/coffee-shop/domain/member"
	"github.com/example/coffee-shop/modules/account"
)

const (
	// MemberContextKey is the key used to store member claims in the
	// Fiber context.
	MemberContextKey = "member"
)

// AuthMiddleware creates a middleware that validates JWT tokens.
func AuthMiddleware(accounts account.AccountPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Token is required",
			})
		}

		claims, err := accounts.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(MemberContextKey, claims)

		return c.Next()
	}
}

// AdminOnly rejects requests whose authenticated member is not an
// administrator. Must run after AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(MemberContextKey).(*memberdomain.Claims)
		if !ok || claims.Role != memberdomain.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Administrator access required",
			})
		}
		return c.Next()
	}
}
