// Package purchase exposes the buyer-side money endpoints: coin
// deposits, purchases and the purchase ledger.
package purchase

import (
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/middleware"
	authsvc "github.com/amirasaad/coinshop/pkg/service/auth"
	purchasesvc "github.com/amirasaad/coinshop/pkg/service/purchase"
	"github.com/amirasaad/coinshop/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(
	app *fiber.App,
	purchaseSvc *purchasesvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	asBuyer := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{
			middleware.JwtProtected(cfg.Jwt),
			middleware.ActiveSession(authSvc),
			middleware.RequireRole(domain.RoleBuyer),
			h,
		}
	}
	app.Post("/deposit", asBuyer(Deposit(purchaseSvc))...)
	app.Post("/buy", asBuyer(Buy(purchaseSvc))...)
	app.Get("/transactions", asBuyer(ListTransactions(purchaseSvc))...)
}

// Deposit adds one coin to the authenticated buyer's balance.
func Deposit(purchaseSvc *purchasesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[DepositInput](c)
		if input == nil {
			return err // error response already written
		}
		buyerID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		balance, err := purchaseSvc.Deposit(c.Context(), buyerID, input.Coin)
		if err != nil {
			return common.DomainErrorJSON(c, "Deposit failed", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Coin accepted", fiber.Map{"balance": balance})
	}
}

// Buy commits a purchase and returns the ledger entry, including the
// change returned as coins.
func Buy(purchaseSvc *purchasesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[BuyInput](c)
		if input == nil {
			return err // error response already written
		}
		productID, err := uuid.Parse(input.ProductID)
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid product ID",
				"Product ID must be a valid UUID")
		}
		buyerID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		txn, err := purchaseSvc.Purchase(
			c.Context(), buyerID, productID, input.Quantity)
		if err != nil {
			return common.DomainErrorJSON(c, "Purchase failed", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusCreated, "Purchase complete", txn)
	}
}

// ListTransactions returns the authenticated buyer's ledger, newest
// first.
func ListTransactions(purchaseSvc *purchasesvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		buyerID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		txns, err := purchaseSvc.ListTransactions(c.Context(), buyerID)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't list transactions", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Transactions found", txns)
	}
}
