// Package memory implements the persistence contracts on an in-memory
// store. It backs single-node runs, the CLI and the test suite.
//
// Writes are serialized behind a context-aware semaphore, so a unit of
// work either acquires the store within the caller's deadline or fails
// with a retryable error instead of blocking. Reads outside a unit of
// work go through an RWMutex read path and never wait on writers
// holding the semaphore, which keeps token validation off the write
// locks.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/google/uuid"
)

type accountRec struct {
	id             uuid.UUID
	username       string
	hashedPassword string
	role           domain.Role
	balance        int64
	activeToken    string
	createdAt      time.Time
	updatedAt      time.Time
}

type productRec struct {
	id        uuid.UUID
	name      string
	price     int64
	quantity  int64
	ownerID   uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

type txnRec struct {
	id         uuid.UUID
	buyerID    uuid.UUID
	productID  uuid.UUID
	quantity   int64
	totalSpent int64
	change     []int64
	createdAt  time.Time
}

// Store holds all records. Uniqueness checks are linear scans; they run
// under the same lock as the insert, so two concurrent registrations
// cannot both pass the existence check.
type Store struct {
	writeSem chan struct{}
	mu       sync.RWMutex
	accounts map[uuid.UUID]accountRec
	products map[uuid.UUID]productRec
	txns     []txnRec
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		writeSem: make(chan struct{}, 1),
		accounts: make(map[uuid.UUID]accountRec),
		products: make(map[uuid.UUID]productRec),
	}
}

func errLockTimeout(cause error) error {
	return fmt.Errorf("%w: store busy: %v", domain.ErrConflict, cause)
}
