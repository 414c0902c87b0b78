// Package initializer builds the process-wide dependencies: logger and
// the persistence unit of work.
package initializer

import (
	"fmt"

	"github.com/amirasaad/coinshop/infra"
	"github.com/amirasaad/coinshop/infra/memory"
	infra_repository "github.com/amirasaad/coinshop/infra/repository"
	"github.com/amirasaad/coinshop/pkg/config"
)

// InitializeDependencies wires the logger and the store. With a
// DATABASE_URL the app runs on Postgres via GORM; without one it falls
// back to the in-memory store, which is enough for local runs and tests.
func InitializeDependencies(cfg *config.App) (*config.Deps, error) {
	deps := &config.Deps{Config: cfg}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	if cfg.DB.Url == "" {
		logger.Info("no database configured; using in-memory store")
		deps.Uow = memory.NewUoW(memory.NewStore())
		return deps, nil
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	deps.Uow = infra_repository.NewUoW(db)
	return deps, nil
}
