package repository

import (
	"context"

	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// Create appends a ledger row. The ledger is write-once: no Update or
// Delete exists on this repository.
func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	txn := Transaction{
		ID:         create.ID,
		BuyerID:    create.BuyerID,
		ProductID:  create.ProductID,
		Quantity:   create.Quantity,
		TotalSpent: create.TotalSpent,
		Change:     create.Change,
		CreatedAt:  create.CreatedAt,
	}
	return MapGormErrorToDomain(r.db.WithContext(ctx).Create(&txn).Error)
}

func (r *transactionRepository) ListByBuyer(
	ctx context.Context,
	buyerID uuid.UUID,
) ([]*dto.TransactionRead, error) {
	var txns []Transaction
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.TransactionRead, 0, len(txns))
	for i := range txns {
		result = append(result, &dto.TransactionRead{
			ID:         txns[i].ID,
			BuyerID:    txns[i].BuyerID,
			ProductID:  txns[i].ProductID,
			Quantity:   txns[i].Quantity,
			TotalSpent: txns[i].TotalSpent,
			Change:     txns[i].Change,
			CreatedAt:  txns[i].CreatedAt,
		})
	}
	return result, nil
}
