// Package product defines the product aggregate owned by a seller.
package product

import (
	"fmt"
	"time"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/google/uuid"
)

var (
	// ErrInvalidPrice is returned when a price is not a positive multiple of 5.
	ErrInvalidPrice = fmt.Errorf(
		"%w: price must be a positive multiple of 5", domain.ErrValidation)
	// ErrInvalidQuantity is returned when a quantity is not a positive integer.
	ErrInvalidQuantity = fmt.Errorf(
		"%w: quantity must be a positive integer", domain.ErrValidation)
	// ErrNameEmpty is returned when a product is created without a name.
	ErrNameEmpty = fmt.Errorf("%w: product name cannot be empty", domain.ErrValidation)
)

// Product is a listing in the catalog. OwnerID is immutable after
// creation; only the owner may mutate or delete the listing.
//
// Invariants:
//   - Price is a positive multiple of 5 (minor units), so any reachable
//     change amount decomposes exactly over the coin denominations.
//   - Quantity never goes negative.
//   - Name is unique across the catalog.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     int64
	Quantity  int64
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidatePrice checks the denomination constraint on a price.
func ValidatePrice(price int64) error {
	if price <= 0 || price%5 != 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateQuantity checks that a quantity is a positive integer.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// New creates a validated Product.
func New(name string, price, quantity int64, ownerID uuid.UUID) (*Product, error) {
	if name == "" {
		return nil, ErrNameEmpty
	}
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
