// Package user exposes the seller-gated account administration endpoints.
package user

import (
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/middleware"
	accountsvc "github.com/amirasaad/coinshop/pkg/service/account"
	authsvc "github.com/amirasaad/coinshop/pkg/service/auth"
	"github.com/amirasaad/coinshop/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	users := app.Group("/users",
		middleware.JwtProtected(cfg.Jwt),
		middleware.ActiveSession(authSvc),
		middleware.RequireRole(domain.RoleSeller))
	users.Get("/", ListUsers(accountSvc))
	users.Get("/:id", GetUser(accountSvc))
	users.Put("/:id", UpdateUser(accountSvc))
	users.Delete("/:id", DeleteUser(accountSvc))
}

// ListUsers returns every account.
func ListUsers(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := accountSvc.List(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't list accounts", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Accounts found", accounts)
	}
}

// GetUser returns a single account by id.
func GetUser(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid account ID",
				"Account ID must be a valid UUID")
		}
		acct, err := accountSvc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't get account", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Account found", acct)
	}
}

// UpdateUser patches an account.
func UpdateUser(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateInput](c)
		if input == nil {
			return err // error response already written
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid account ID",
				"Account ID must be a valid UUID")
		}
		acct, err := accountSvc.Update(c.Context(), id, accountsvc.UpdateInput{
			Username: input.Username,
			Password: input.Password,
			Role:     input.Role,
			Balance:  input.Balance,
		})
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't update account", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Account updated", acct)
	}
}

// DeleteUser removes an account.
func DeleteUser(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid account ID",
				"Account ID must be a valid UUID")
		}
		if err := accountSvc.Delete(c.Context(), id); err != nil {
			return common.DomainErrorJSON(c, "Couldn't delete account", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Account deleted", nil)
	}
}
