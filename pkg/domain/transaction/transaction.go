// Package transaction defines the immutable ledger entry written when a
// purchase commits.
package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is an append-only record of a completed purchase. It is
// written exactly once inside the purchase commit and never mutated.
type Transaction struct {
	ID         uuid.UUID
	BuyerID    uuid.UUID
	ProductID  uuid.UUID
	Quantity   int64
	TotalSpent int64
	Change     []int64
	CreatedAt  time.Time
}

// New creates a ledger entry for a settled purchase.
func New(
	buyerID, productID uuid.UUID,
	quantity, totalSpent int64,
	change []int64,
) *Transaction {
	return &Transaction{
		ID:         uuid.New(),
		BuyerID:    buyerID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalSpent: totalSpent,
		Change:     change,
		CreatedAt:  time.Now().UTC(),
	}
}
