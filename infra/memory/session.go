package memory

import (
	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/google/uuid"
)

// session is the storage view a repository operates on: either the
// store itself (autocommit) or a staged transaction.
type session interface {
	getAccount(id uuid.UUID) (accountRec, error)
	getAccountByUsername(username string) (accountRec, error)
	listAccounts() []accountRec
	putAccount(rec accountRec)
	deleteAccount(id uuid.UUID)

	getProduct(id uuid.UUID) (productRec, error)
	getProductByName(name string) (productRec, error)
	listProducts() []productRec
	putProduct(rec productRec)
	deleteProduct(id uuid.UUID)

	appendTxn(rec txnRec)
	listTxnsByBuyer(buyerID uuid.UUID) []txnRec

	// atomic runs fn with the session held exclusively, so a
	// read-modify-write sequence inside fn cannot interleave with
	// other writers.
	atomic(fn func(s session) error) error
}

// baseSession applies every operation directly to the store under its
// RWMutex. Reads take the read lock only, so they never queue behind a
// transaction that is waiting on the write semaphore. With exclusive
// set the caller already holds the write lock and the per-op locking
// is skipped.
type baseSession struct {
	store     *Store
	exclusive bool
}

func (s *baseSession) rlock() {
	if !s.exclusive {
		s.store.mu.RLock()
	}
}

func (s *baseSession) runlock() {
	if !s.exclusive {
		s.store.mu.RUnlock()
	}
}

func (s *baseSession) lock() {
	if !s.exclusive {
		s.store.mu.Lock()
	}
}

func (s *baseSession) unlock() {
	if !s.exclusive {
		s.store.mu.Unlock()
	}
}

func (s *baseSession) atomic(fn func(s session) error) error {
	if s.exclusive {
		return fn(s)
	}
	s.lock()
	defer s.unlock()
	return fn(&baseSession{store: s.store, exclusive: true})
}

func (s *baseSession) getAccount(id uuid.UUID) (accountRec, error) {
	s.rlock()
	defer s.runlock()
	rec, ok := s.store.accounts[id]
	if !ok {
		return accountRec{}, domain.ErrNotFound
	}
	return rec, nil
}

func (s *baseSession) getAccountByUsername(username string) (accountRec, error) {
	s.rlock()
	defer s.runlock()
	for _, rec := range s.store.accounts {
		if rec.username == username {
			return rec, nil
		}
	}
	return accountRec{}, domain.ErrNotFound
}

func (s *baseSession) listAccounts() []accountRec {
	s.rlock()
	defer s.runlock()
	out := make([]accountRec, 0, len(s.store.accounts))
	for _, rec := range s.store.accounts {
		out = append(out, rec)
	}
	return out
}

func (s *baseSession) putAccount(rec accountRec) {
	s.lock()
	defer s.unlock()
	s.store.accounts[rec.id] = rec
}

func (s *baseSession) deleteAccount(id uuid.UUID) {
	s.lock()
	defer s.unlock()
	delete(s.store.accounts, id)
}

func (s *baseSession) getProduct(id uuid.UUID) (productRec, error) {
	s.rlock()
	defer s.runlock()
	rec, ok := s.store.products[id]
	if !ok {
		return productRec{}, domain.ErrNotFound
	}
	return rec, nil
}

func (s *baseSession) getProductByName(name string) (productRec, error) {
	s.rlock()
	defer s.runlock()
	for _, rec := range s.store.products {
		if rec.name == name {
			return rec, nil
		}
	}
	return productRec{}, domain.ErrNotFound
}

func (s *baseSession) listProducts() []productRec {
	s.rlock()
	defer s.runlock()
	out := make([]productRec, 0, len(s.store.products))
	for _, rec := range s.store.products {
		out = append(out, rec)
	}
	return out
}

func (s *baseSession) putProduct(rec productRec) {
	s.lock()
	defer s.unlock()
	s.store.products[rec.id] = rec
}

func (s *baseSession) deleteProduct(id uuid.UUID) {
	s.lock()
	defer s.unlock()
	delete(s.store.products, id)
}

func (s *baseSession) appendTxn(rec txnRec) {
	s.lock()
	defer s.unlock()
	s.store.txns = append(s.store.txns, rec)
}

func (s *baseSession) listTxnsByBuyer(buyerID uuid.UUID) []txnRec {
	s.rlock()
	defer s.runlock()
	out := make([]txnRec, 0)
	for _, rec := range s.store.txns {
		if rec.buyerID == buyerID {
			out = append(out, rec)
		}
	}
	return out
}

// txState stages mutations until commit. The write semaphore is held
// for the whole transaction, so staged reads do not need further
// coordination; base reads still take the read lock to stay consistent
// with autocommit writers.
type txState struct {
	store           *Store
	accounts        map[uuid.UUID]accountRec
	deletedAccounts map[uuid.UUID]bool
	products        map[uuid.UUID]productRec
	deletedProducts map[uuid.UUID]bool
	txns            []txnRec
}

func newTxState(store *Store) *txState {
	return &txState{
		store:           store,
		accounts:        make(map[uuid.UUID]accountRec),
		deletedAccounts: make(map[uuid.UUID]bool),
		products:        make(map[uuid.UUID]productRec),
		deletedProducts: make(map[uuid.UUID]bool),
	}
}

// commit publishes all staged changes at once. Other callers observe
// either none or all of them.
func (t *txState) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id := range t.deletedAccounts {
		delete(t.store.accounts, id)
	}
	for id, rec := range t.accounts {
		t.store.accounts[id] = rec
	}
	for id := range t.deletedProducts {
		delete(t.store.products, id)
	}
	for id, rec := range t.products {
		t.store.products[id] = rec
	}
	t.store.txns = append(t.store.txns, t.txns...)
}

// The write semaphore is held for the whole transaction, so staged
// state already has a single writer.
func (t *txState) atomic(fn func(s session) error) error {
	return fn(t)
}

func (t *txState) getAccount(id uuid.UUID) (accountRec, error) {
	if t.deletedAccounts[id] {
		return accountRec{}, domain.ErrNotFound
	}
	if rec, ok := t.accounts[id]; ok {
		return rec, nil
	}
	return (&baseSession{store: t.store}).getAccount(id)
}

func (t *txState) getAccountByUsername(username string) (accountRec, error) {
	for _, rec := range t.accounts {
		if rec.username == username && !t.deletedAccounts[rec.id] {
			return rec, nil
		}
	}
	rec, err := (&baseSession{store: t.store}).getAccountByUsername(username)
	if err != nil {
		return accountRec{}, err
	}
	if t.deletedAccounts[rec.id] {
		return accountRec{}, domain.ErrNotFound
	}
	// A staged update may have renamed this account.
	if staged, ok := t.accounts[rec.id]; ok && staged.username != username {
		return accountRec{}, domain.ErrNotFound
	}
	return rec, nil
}

func (t *txState) listAccounts() []accountRec {
	seen := make(map[uuid.UUID]bool)
	out := make([]accountRec, 0)
	for _, rec := range t.accounts {
		out = append(out, rec)
		seen[rec.id] = true
	}
	for _, rec := range (&baseSession{store: t.store}).listAccounts() {
		if !seen[rec.id] && !t.deletedAccounts[rec.id] {
			out = append(out, rec)
		}
	}
	return out
}

func (t *txState) putAccount(rec accountRec) {
	delete(t.deletedAccounts, rec.id)
	t.accounts[rec.id] = rec
}

func (t *txState) deleteAccount(id uuid.UUID) {
	delete(t.accounts, id)
	t.deletedAccounts[id] = true
}

func (t *txState) getProduct(id uuid.UUID) (productRec, error) {
	if t.deletedProducts[id] {
		return productRec{}, domain.ErrNotFound
	}
	if rec, ok := t.products[id]; ok {
		return rec, nil
	}
	return (&baseSession{store: t.store}).getProduct(id)
}

func (t *txState) getProductByName(name string) (productRec, error) {
	for _, rec := range t.products {
		if rec.name == name && !t.deletedProducts[rec.id] {
			return rec, nil
		}
	}
	rec, err := (&baseSession{store: t.store}).getProductByName(name)
	if err != nil {
		return productRec{}, err
	}
	if t.deletedProducts[rec.id] {
		return productRec{}, domain.ErrNotFound
	}
	if staged, ok := t.products[rec.id]; ok && staged.name != name {
		return productRec{}, domain.ErrNotFound
	}
	return rec, nil
}

func (t *txState) listProducts() []productRec {
	seen := make(map[uuid.UUID]bool)
	out := make([]productRec, 0)
	for _, rec := range t.products {
		out = append(out, rec)
		seen[rec.id] = true
	}
	for _, rec := range (&baseSession{store: t.store}).listProducts() {
		if !seen[rec.id] && !t.deletedProducts[rec.id] {
			out = append(out, rec)
		}
	}
	return out
}

func (t *txState) putProduct(rec productRec) {
	delete(t.deletedProducts, rec.id)
	t.products[rec.id] = rec
}

func (t *txState) deleteProduct(id uuid.UUID) {
	delete(t.products, id)
	t.deletedProducts[id] = true
}

func (t *txState) appendTxn(rec txnRec) {
	t.txns = append(t.txns, rec)
}

func (t *txState) listTxnsByBuyer(buyerID uuid.UUID) []txnRec {
	out := (&baseSession{store: t.store}).listTxnsByBuyer(buyerID)
	for _, rec := range t.txns {
		if rec.buyerID == buyerID {
			out = append(out, rec)
		}
	}
	return out
}
