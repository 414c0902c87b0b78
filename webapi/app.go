// Package webapi mounts the HTTP surface on a Fiber app.
package webapi

import (
	"github.com/amirasaad/coinshop/app"
	"github.com/amirasaad/coinshop/webapi/auth"
	"github.com/amirasaad/coinshop/webapi/common"
	"github.com/amirasaad/coinshop/webapi/product"
	"github.com/amirasaad/coinshop/webapi/purchase"
	"github.com/amirasaad/coinshop/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp builds the Fiber app with all middleware and routes mounted.
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default to 500 if status code cannot be determined
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(
				c, status, "Internal Server Error", err.Error())
		},
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(
				c, fiber.StatusTooManyRequests,
				"Too Many Requests", "Rate limit exceeded")
		},
	}))

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Coin shop is open! 🪙")
	})

	auth.Routes(fiberApp, a.AccountService, a.AuthService, cfg)
	user.Routes(fiberApp, a.AccountService, a.AuthService, cfg)
	product.Routes(fiberApp, a.ProductService, a.AuthService, cfg)
	purchase.Routes(fiberApp, a.PurchaseService, a.AuthService, cfg)

	return fiberApp
}
