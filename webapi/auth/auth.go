// Package auth exposes the registration, login and logout endpoints.
package auth

import (
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/pkg/middleware"
	accountsvc "github.com/amirasaad/coinshop/pkg/service/account"
	authsvc "github.com/amirasaad/coinshop/pkg/service/auth"
	"github.com/amirasaad/coinshop/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	app.Post("/auth/register", Register(accountSvc))
	app.Post("/auth/login", Login(authSvc))
	app.Post("/auth/logout",
		middleware.JwtProtected(cfg.Jwt),
		middleware.ActiveSession(authSvc),
		Logout(authSvc))
	app.Post("/auth/logout/all",
		middleware.JwtProtected(cfg.Jwt),
		middleware.ActiveSession(authSvc),
		LogoutAll(authSvc))
}

// Register creates a new buyer or seller account.
func Register(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err // error response already written
		}
		acct, err := accountSvc.Register(
			c.Context(), input.Username, input.Password, input.Role)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't create account", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusCreated, "Account created", acct)
	}
}

// Login authenticates an account and returns a bearer token. An account
// that already holds an active session is rejected until it logs out.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // error response already written
		}
		token, err := authSvc.Login(c.Context(), input.Username, input.Password)
		if err != nil {
			return common.DomainErrorJSON(c, "Login failed", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Success login", fiber.Map{"token": token})
	}
}

// Logout revokes the presented token's session.
func Logout(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		token, _ := c.Locals(middleware.TokenKey).(string)
		if err := authSvc.Logout(c.Context(), accountID, token); err != nil {
			return common.DomainErrorJSON(c, "Logout failed", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Logged out", nil)
	}
}

// LogoutAll revokes every session of the authenticated account.
func LogoutAll(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		if err := authSvc.LogoutAll(c.Context(), accountID); err != nil {
			return common.DomainErrorJSON(c, "Logout failed", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "All sessions revoked", nil)
	}
}
