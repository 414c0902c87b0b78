// Package product exposes the product catalog endpoints. Reads are
// open; writes require a seller session and go through owner checks in
// the service layer.
package product

import (
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/amirasaad/coinshop/pkg/middleware"
	authsvc "github.com/amirasaad/coinshop/pkg/service/auth"
	productsvc "github.com/amirasaad/coinshop/pkg/service/product"
	"github.com/amirasaad/coinshop/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(
	app *fiber.App,
	productSvc *productsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	app.Get("/products", ListProducts(productSvc))
	app.Get("/products/:id", GetProduct(productSvc))

	sellers := app.Group("/products",
		middleware.JwtProtected(cfg.Jwt),
		middleware.ActiveSession(authSvc),
		middleware.RequireRole(domain.RoleSeller))
	sellers.Post("/", CreateProduct(productSvc))
	sellers.Put("/:id", UpdateProduct(productSvc))
	sellers.Delete("/:id", DeleteProduct(productSvc))
}

// ListProducts returns every listing.
func ListProducts(productSvc *productsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := productSvc.List(c.Context())
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't list products", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Products found", products)
	}
}

// GetProduct returns a single listing by id.
func GetProduct(productSvc *productsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid product ID",
				"Product ID must be a valid UUID")
		}
		prod, err := productSvc.Get(c.Context(), id)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't get product", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Product found", prod)
	}
}

// CreateProduct inserts a new listing owned by the authenticated seller.
func CreateProduct(productSvc *productsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateInput](c)
		if input == nil {
			return err // error response already written
		}
		ownerID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		prod, err := productSvc.Create(
			c.Context(), input.Name, input.Price, input.Quantity, ownerID)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't create product", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusCreated, "Product created", prod)
	}
}

// UpdateProduct patches a listing the authenticated seller owns.
func UpdateProduct(productSvc *productsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateInput](c)
		if input == nil {
			return err // error response already written
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid product ID",
				"Product ID must be a valid UUID")
		}
		requesterID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		prod, err := productSvc.Update(c.Context(), id, dto.ProductUpdate{
			Name:     input.Name,
			Price:    input.Price,
			Quantity: input.Quantity,
		}, requesterID)
		if err != nil {
			return common.DomainErrorJSON(c, "Couldn't update product", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Product updated", prod)
	}
}

// DeleteProduct removes a listing the authenticated seller owns.
func DeleteProduct(productSvc *productsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(
				c, fiber.StatusBadRequest, "Invalid product ID",
				"Product ID must be a valid UUID")
		}
		requesterID, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(
				c, fiber.StatusUnauthorized, "Unauthenticated", nil)
		}
		if err := productSvc.Delete(c.Context(), id, requesterID); err != nil {
			return common.DomainErrorJSON(c, "Couldn't delete product", err)
		}
		return common.SuccessResponseJSON(
			c, fiber.StatusOK, "Product deleted", nil)
	}
}
