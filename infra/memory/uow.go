package memory

import (
	"context"

	"github.com/amirasaad/coinshop/pkg/repository"
)

// UoW implements repository.UnitOfWork on a Store. Outside Do the
// repositories run autocommit operations; inside Do they stage changes
// that become visible to other callers only when the closure returns
// nil.
type UoW struct {
	store *Store
	tx    *txState
}

// NewUoW creates a unit of work over the given store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do serializes the transaction behind the store's write semaphore.
// Acquisition honors ctx: an expired deadline surfaces a retryable
// conflict instead of blocking. A nested Do joins the running
// transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	select {
	case u.store.writeSem <- struct{}{}:
	case <-ctx.Done():
		return errLockTimeout(ctx.Err())
	}
	defer func() { <-u.store.writeSem }()

	tx := newTxState(u.store)
	if err := fn(&UoW{store: u.store, tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (u *UoW) session() session {
	if u.tx != nil {
		return u.tx
	}
	return &baseSession{store: u.store}
}

// AccountRepository returns an account repository bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{s: u.session()}, nil
}

// ProductRepository returns a product repository bound to the current session.
func (u *UoW) ProductRepository() (repository.ProductRepository, error) {
	return &productRepo{s: u.session()}, nil
}

// TransactionRepository returns a ledger repository bound to the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{s: u.session()}, nil
}
