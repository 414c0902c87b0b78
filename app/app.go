// Package app assembles the service layer from its dependencies.
package app

import (
	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/pkg/service/account"
	"github.com/amirasaad/coinshop/pkg/service/auth"
	"github.com/amirasaad/coinshop/pkg/service/product"
	"github.com/amirasaad/coinshop/pkg/service/purchase"
)

type App struct {
	Deps            *config.Deps
	Config          *config.App
	AuthService     *auth.Service
	AccountService  *account.Service
	ProductService  *product.Service
	PurchaseService *purchase.Service
}

func New(deps *config.Deps, cfg *config.App) *App {
	return &App{
		Deps:            deps,
		Config:          cfg,
		AuthService:     auth.New(deps.Uow, cfg.Jwt, deps.Logger),
		AccountService:  account.New(deps.Uow, deps.Logger),
		ProductService:  product.New(deps.Uow, deps.Logger),
		PurchaseService: purchase.New(deps.Uow, cfg.Purchase.CommitRetries, deps.Logger),
	}
}
