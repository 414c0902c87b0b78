// Package product implements the catalog: seller-owned listings with
// denomination-constrained prices.
package product

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/coinshop/pkg/domain"
	productdomain "github.com/amirasaad/coinshop/pkg/domain/product"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/amirasaad/coinshop/pkg/repository"
	"github.com/google/uuid"
)

// Service owns the product catalog. Mutations are owner-gated; only
// sellers may create listings.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a catalog Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create validates and inserts a new listing for ownerID. The name
// uniqueness check and the insert share one transaction.
func (s *Service) Create(
	ctx context.Context,
	name string,
	price, quantity int64,
	ownerID uuid.UUID,
) (read *dto.ProductRead, err error) {
	log := s.logger.With("context", "Create", "name", name, "ownerID", ownerID)
	log.Debug("Create called")
	prod, err := productdomain.New(name, price, quantity, ownerID)
	if err != nil {
		log.Error("Create failed", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		owner, err := accounts.Get(ctx, ownerID)
		if err != nil {
			return err
		}
		if owner.Role != domain.RoleSeller {
			return domain.ErrForbidden
		}
		products, err := uow.ProductRepository()
		if err != nil {
			return err
		}
		_, err = products.GetByName(ctx, name)
		if err == nil {
			return domain.ErrConflict
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := products.Create(ctx, dto.ProductCreate{
			ID:       prod.ID,
			Name:     prod.Name,
			Price:    prod.Price,
			Quantity: prod.Quantity,
			OwnerID:  prod.OwnerID,
		}); err != nil {
			return err
		}
		read, err = products.Get(ctx, prod.ID)
		return err
	})
	if err != nil {
		log.Error("Create failed", "error", err)
		return nil, err
	}
	log.Info("Create successful", "productID", read.ID)
	return read, nil
}

// Update patches a listing. Only the owner may update; changed price
// and quantity fields are re-validated.
func (s *Service) Update(
	ctx context.Context,
	productID uuid.UUID,
	patch dto.ProductUpdate,
	requesterID uuid.UUID,
) (read *dto.ProductRead, err error) {
	log := s.logger.With("context", "Update", "productID", productID)
	log.Debug("Update called")
	if patch.Price != nil {
		if err := productdomain.ValidatePrice(*patch.Price); err != nil {
			log.Error("Update failed", "error", err)
			return nil, err
		}
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, productdomain.ErrInvalidQuantity
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		products, err := uow.ProductRepository()
		if err != nil {
			return err
		}
		current, err := products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if current.OwnerID != requesterID {
			return domain.ErrForbidden
		}
		if patch.Name != nil && *patch.Name != current.Name {
			if *patch.Name == "" {
				return productdomain.ErrNameEmpty
			}
			if _, err := products.GetByName(ctx, *patch.Name); err == nil {
				return domain.ErrConflict
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		if err := products.Update(ctx, productID, patch); err != nil {
			return err
		}
		read, err = products.Get(ctx, productID)
		return err
	})
	if err != nil {
		log.Error("Update failed", "error", err)
		return nil, err
	}
	log.Info("Update successful")
	return read, nil
}

// Delete removes a listing. Only the owner may delete.
func (s *Service) Delete(
	ctx context.Context,
	productID, requesterID uuid.UUID,
) error {
	log := s.logger.With("context", "Delete", "productID", productID)
	log.Debug("Delete called")
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		products, err := uow.ProductRepository()
		if err != nil {
			return err
		}
		current, err := products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if current.OwnerID != requesterID {
			return domain.ErrForbidden
		}
		return products.Delete(ctx, productID)
	})
	if err != nil {
		log.Error("Delete failed", "error", err)
		return err
	}
	log.Info("Delete successful")
	return nil
}

// DecrementQuantity atomically takes n units out of stock; it fails
// ErrOutOfStock when fewer than n remain.
func (s *Service) DecrementQuantity(
	ctx context.Context,
	productID uuid.UUID,
	n int64,
) error {
	log := s.logger.With("context", "DecrementQuantity", "productID", productID)
	log.Debug("DecrementQuantity called", "n", n)
	if n <= 0 {
		return productdomain.ErrInvalidQuantity
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		products, err := uow.ProductRepository()
		if err != nil {
			return err
		}
		if _, err := products.Get(ctx, productID); err != nil {
			return err
		}
		ok, err := products.Decrement(ctx, productID, n)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrOutOfStock
		}
		return nil
	})
	if err != nil {
		log.Error("DecrementQuantity failed", "error", err)
		return err
	}
	log.Info("DecrementQuantity successful")
	return nil
}

// Get returns a single listing.
func (s *Service) Get(ctx context.Context, productID uuid.UUID) (*dto.ProductRead, error) {
	products, err := s.uow.ProductRepository()
	if err != nil {
		return nil, err
	}
	return products.Get(ctx, productID)
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]*dto.ProductRead, error) {
	products, err := s.uow.ProductRepository()
	if err != nil {
		return nil, err
	}
	return products.List(ctx)
}
