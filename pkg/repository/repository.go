// Package repository defines the persistence contracts the services
// depend on. Implementations live under infra.
package repository

import (
	"context"

	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/google/uuid"
)

// AccountRepository owns account records. Lookup misses return
// domain.ErrNotFound. The conditional mutations (AddToBalance,
// CompareAndSetBalance) are atomic relative to each other on the same
// account.
type AccountRepository interface {
	Create(ctx context.Context, create dto.AccountCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)
	GetByUsername(ctx context.Context, username string) (*dto.AccountRead, error)
	List(ctx context.Context) ([]*dto.AccountRead, error)
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error
	// AddToBalance atomically applies delta and returns the new balance.
	// Returns domain.ErrInsufficientFunds if the result would be negative.
	AddToBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
	// CompareAndSetBalance sets the balance to new only if it still
	// equals old. Returns false when the guard fails.
	CompareAndSetBalance(ctx context.Context, id uuid.UUID, old, new int64) (bool, error)
	// SetActiveToken records token as the account's sole active session.
	// An empty token clears the session slot.
	SetActiveToken(ctx context.Context, id uuid.UUID, token string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository owns product records. Decrement is atomic relative
// to concurrent decrements on the same product.
type ProductRepository interface {
	Create(ctx context.Context, create dto.ProductCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductRead, error)
	GetByName(ctx context.Context, name string) (*dto.ProductRead, error)
	List(ctx context.Context) ([]*dto.ProductRead, error)
	Update(ctx context.Context, id uuid.UUID, update dto.ProductUpdate) error
	// Decrement subtracts n from the quantity only if at least n units
	// remain. Returns false when the guard fails.
	Decrement(ctx context.Context, id uuid.UUID, n int64) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository is the append-only purchase ledger.
type TransactionRepository interface {
	Create(ctx context.Context, create dto.TransactionCreate) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*dto.TransactionRead, error)
}
