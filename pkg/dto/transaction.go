package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionCreate represents a ledger entry to append. Entries are
// write-once; there is no update DTO.
type TransactionCreate struct {
	ID         uuid.UUID
	BuyerID    uuid.UUID
	ProductID  uuid.UUID
	Quantity   int64
	TotalSpent int64
	Change     []int64
	CreatedAt  time.Time
}

// TransactionRead is the read model for a completed purchase.
type TransactionRead struct {
	ID         uuid.UUID `json:"id"`
	BuyerID    uuid.UUID `json:"buyer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	TotalSpent int64     `json:"total_spent"`
	Change     []int64   `json:"change"`
	CreatedAt  time.Time `json:"created_at"`
}
