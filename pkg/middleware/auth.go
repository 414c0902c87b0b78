// Package middleware provides Fiber middleware for JWT verification,
// active-session enforcement and role gating.
package middleware

import (
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/pkg/domain"
	authsvc "github.com/amirasaad/coinshop/pkg/service/auth"
	"github.com/amirasaad/coinshop/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Locals keys populated by ActiveSession for downstream handlers.
const (
	AccountIDKey = "account_id"
	RoleKey      = "role"
	TokenKey     = "token"
)

// JwtProtected verifies the Authorization bearer token signature.
// Claims end up in c.Locals("user") as *jwt.Token.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return common.ErrorResponseJSON(
			c, fiber.StatusBadRequest, "Missing or malformed JWT", nil)
	}
	return common.ErrorResponseJSON(
		c, fiber.StatusUnauthorized, "Invalid or expired JWT", err.Error())
}

// ActiveSession cross-checks the verified token against the account's
// stored session. A token that was revoked by logout fails here even
// though its signature is still valid. On success the account id, role
// and raw token are stored in Locals.
func ActiveSession(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		accountID, role, err := authSvc.Validate(c.Context(), token.Raw)
		if err != nil {
			return common.DomainErrorJSON(c, "Unauthenticated", err)
		}
		c.Locals(AccountIDKey, accountID)
		c.Locals(RoleKey, role)
		c.Locals(TokenKey, token.Raw)
		return c.Next()
	}
}

// RequireRole rejects requests whose session role does not match.
// Must run after ActiveSession.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got, ok := c.Locals(RoleKey).(domain.Role)
		if !ok || got != role {
			return common.ErrorResponseJSON(
				c, fiber.StatusForbidden, "Forbidden",
				"this operation requires the "+string(role)+" role")
		}
		return c.Next()
	}
}

// AccountID returns the authenticated account id set by ActiveSession.
func AccountID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(AccountIDKey).(uuid.UUID)
	return id, ok
}
