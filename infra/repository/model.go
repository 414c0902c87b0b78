package repository

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an account record in the database.
type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username       string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Role           string    `gorm:"type:varchar(16);not null"`
	Balance        int64     `gorm:"not null;default:0"`
	ActiveToken    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Product represents a product record in the database.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Price     int64     `gorm:"not null"`
	Quantity  int64     `gorm:"not null"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Product model.
func (Product) TableName() string {
	return "products"
}

// Transaction represents a ledger record in the database. Rows are
// insert-only; nothing updates or deletes them.
type Transaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int64     `gorm:"not null"`
	TotalSpent int64     `gorm:"not null"`
	Change     []int64   `gorm:"serializer:json"`
	CreatedAt  time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
