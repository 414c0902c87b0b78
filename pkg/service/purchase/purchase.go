// Package purchase implements the purchase engine: coin deposits and
// the atomic buy operation spanning the buyer's balance, the product's
// stock and the ledger.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/domain/coin"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/amirasaad/coinshop/pkg/repository"
	"github.com/google/uuid"
)

// DefaultCommitRetries bounds the optimistic-commit retry loop when no
// configuration is supplied.
const DefaultCommitRetries = 3

var errCommitRace = fmt.Errorf("%w: purchase commit lost an optimistic race", domain.ErrConflict)

// Service orchestrates deposits and purchases for buyers.
type Service struct {
	uow     repository.UnitOfWork
	retries int
	logger  *slog.Logger
}

// New creates a purchase Service with a bounded commit-retry budget.
// retries <= 0 falls back to DefaultCommitRetries.
func New(uow repository.UnitOfWork, retries int, logger *slog.Logger) *Service {
	if retries <= 0 {
		retries = DefaultCommitRetries
	}
	return &Service{uow: uow, retries: retries, logger: logger}
}

// Deposit adds one coin to the buyer's balance and returns the new
// balance. Only the fixed denominations are accepted; sellers cannot
// deposit.
func (s *Service) Deposit(
	ctx context.Context,
	buyerID uuid.UUID,
	c int64,
) (newBalance int64, err error) {
	log := s.logger.With("context", "Deposit", "accountID", buyerID)
	log.Debug("Deposit called", "coin", c)
	if !coin.Valid(c) {
		log.Error("Deposit failed", "error", coin.ErrInvalidCoin)
		return 0, coin.ErrInvalidCoin
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.Get(ctx, buyerID)
		if err != nil {
			return err
		}
		if acct.Role != domain.RoleBuyer {
			return domain.ErrForbidden
		}
		newBalance, err = accounts.AddToBalance(ctx, buyerID, c)
		return err
	})
	if err != nil {
		log.Error("Deposit failed", "error", err)
		return 0, err
	}
	log.Info("Deposit successful", "balance", newBalance)
	return newBalance, nil
}

// Purchase buys quantity units of a product for the buyer.
//
// All checks are pure preconditions; the only mutating step is the
// final commit, which resets the buyer's balance to zero, decrements
// the stock and appends the ledger entry in one transaction. The
// remainder of the balance comes back as change in coins. If the stock
// or balance moved between check and commit, the transaction rolls back
// and the whole operation is retried; after the retry budget the
// caller sees a retryable ErrConflict.
func (s *Service) Purchase(
	ctx context.Context,
	buyerID, productID uuid.UUID,
	quantity int64,
) (*dto.TransactionRead, error) {
	log := s.logger.With(
		"context", "Purchase",
		"accountID", buyerID,
		"productID", productID,
	)
	log.Debug("Purchase called", "quantity", quantity)
	if quantity <= 0 {
		log.Error("Purchase failed", "error", domain.ErrValidation)
		return nil, fmt.Errorf(
			"%w: quantity must be a positive integer", domain.ErrValidation)
	}

	for attempt := 0; attempt < s.retries; attempt++ {
		read, err := s.tryPurchase(ctx, buyerID, productID, quantity)
		if err == nil {
			log.Info("Purchase successful",
				"transactionID", read.ID,
				"totalSpent", read.TotalSpent,
				"attempt", attempt+1,
			)
			return read, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			log.Error("Purchase failed", "error", err)
			return nil, err
		}
		log.Warn("Purchase commit contention, retrying", "attempt", attempt+1)
	}
	log.Error("Purchase failed", "error", errCommitRace)
	return nil, errCommitRace
}

func (s *Service) tryPurchase(
	ctx context.Context,
	buyerID, productID uuid.UUID,
	quantity int64,
) (read *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		products, err := uow.ProductRepository()
		if err != nil {
			return err
		}
		prod, err := products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if quantity > prod.Quantity {
			return domain.ErrOutOfStock
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		buyer, err := accounts.Get(ctx, buyerID)
		if err != nil {
			return err
		}
		if buyer.Role != domain.RoleBuyer {
			return domain.ErrForbidden
		}
		totalCost := prod.Price * quantity
		if buyer.Balance < totalCost {
			return domain.ErrInsufficientFunds
		}
		change, err := coin.MakeChange(buyer.Balance - totalCost)
		if err != nil {
			return err
		}

		// Commit point. The conditional updates guard against stock or
		// balance having moved since the reads above; a failed guard
		// rolls the whole transaction back as a retryable conflict.
		ok, err := products.Decrement(ctx, productID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		ok, err = accounts.CompareAndSetBalance(ctx, buyerID, buyer.Balance, 0)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		create := dto.TransactionCreate{
			ID:         uuid.New(),
			BuyerID:    buyerID,
			ProductID:  productID,
			Quantity:   quantity,
			TotalSpent: totalCost,
			Change:     change,
			CreatedAt:  time.Now().UTC(),
		}
		ledger, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if err := ledger.Create(ctx, create); err != nil {
			return err
		}
		read = &dto.TransactionRead{
			ID:         create.ID,
			BuyerID:    create.BuyerID,
			ProductID:  create.ProductID,
			Quantity:   create.Quantity,
			TotalSpent: create.TotalSpent,
			Change:     create.Change,
			CreatedAt:  create.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return read, nil
}

// ListTransactions returns the buyer's ledger entries.
func (s *Service) ListTransactions(
	ctx context.Context,
	buyerID uuid.UUID,
) ([]*dto.TransactionRead, error) {
	ledger, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return ledger.ListByBuyer(ctx, buyerID)
}
