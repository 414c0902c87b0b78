// Package repository implements the persistence contracts on top of
// GORM/Postgres. The unit of work wraps gorm transactions; repositories
// obtained inside Do share the transaction session, repositories
// obtained outside run on the plain session.
package repository

import (
	"context"

	"github.com/amirasaad/coinshop/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction, so every repository used inside Do is bound to the same
// DB transaction and the composite purchase commit is all-or-nothing.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Do runs fn in a transaction boundary. The context is threaded into
// the transaction, so a caller deadline aborts the commit instead of
// blocking on lock acquisition.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// AccountRepository returns an account repository bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{db: u.session()}, nil
}

// ProductRepository returns a product repository bound to the current session.
func (u *UoW) ProductRepository() (repository.ProductRepository, error) {
	return &productRepository{db: u.session()}, nil
}

// TransactionRepository returns a ledger repository bound to the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{db: u.session()}, nil
}
