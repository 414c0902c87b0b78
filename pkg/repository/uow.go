package repository

import "context"

// UnitOfWork defines the transaction boundary and repository access.
//
// Repositories obtained inside Do are bound to the running transaction,
// so every mutation in the closure commits or rolls back as one unit.
// Repositories obtained outside Do are bound to a plain session and are
// suitable for read paths that must not contend on write locks (token
// validation in particular).
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork
	// passed to fn yields transaction-bound repositories. If fn returns
	// an error the transaction is rolled back and nothing is visible to
	// other callers. Acquisition respects ctx: a cancelled or expired
	// context aborts with a retryable error instead of blocking.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	ProductRepository() (ProductRepository, error)
	TransactionRepository() (TransactionRepository, error)
}
