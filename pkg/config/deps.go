package config

import (
	"log/slog"

	"github.com/amirasaad/coinshop/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow    repository.UnitOfWork
	Logger *slog.Logger
	Config *App
}
