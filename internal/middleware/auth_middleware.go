package middleware

import (
	"strings"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalTenantID      = "tenant_id"
	LocalBusinessEmail = "business_email"
	LocalBusinessName  = "business_name"
)

// RequireAuth validates the bearer token and puts the tenant in the request context.
// Websocket upgrades may pass the token as ?token= since browsers cannot set headers there.
func RequireAuth(tokens *jwt.Manager, businesses repository.BusinessRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := extractToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization format. Use: Bearer <token>",
				"code":  "unauthorized",
			})
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error(), "code": "unauthorized"})
		}

		// the tenant must still exist
		if _, err := businesses.FindByID(c.UserContext(), claims.TenantID); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Business not found", "code": "unauthorized"})
		}

		c.Locals(LocalTenantID, claims.TenantID)
		c.Locals(LocalBusinessEmail, claims.Email)
		c.Locals(LocalBusinessName, claims.Name)

		return c.Next()
	}
}

// TenantID returns the tenant set by RequireAuth, or uuid.Nil on unprotected routes.
func TenantID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalTenantID).(uuid.UUID)
	return id
}

func extractToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Query("token"), true
		}
		return "", true
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}
