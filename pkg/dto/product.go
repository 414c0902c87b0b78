package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProductCreate represents the data needed to persist a new product.
type ProductCreate struct {
	ID       uuid.UUID
	Name     string
	Price    int64
	Quantity int64
	OwnerID  uuid.UUID
}

// ProductUpdate represents the fields a seller may patch on their own
// listing. Nil fields are left untouched; OwnerID is immutable.
type ProductUpdate struct {
	Name     *string
	Price    *int64
	Quantity *int64
}

// ProductRead is the read model returned by product repositories.
type ProductRead struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int64     `json:"quantity"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
