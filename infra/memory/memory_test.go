package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/coinshop/infra/memory"
	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/amirasaad/coinshop/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, uow repository.UnitOfWork) uuid.UUID {
	t.Helper()
	id := uuid.New()
	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), dto.AccountCreate{
		ID:             id,
		Username:       "alice",
		HashedPassword: "hash",
		Role:           domain.RoleBuyer,
	}))
	return id
}

func TestCompareAndSetBalance(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	id := seedAccount(t, uow)

	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	_, err = repo.AddToBalance(ctx, id, 100)
	require.NoError(t, err)

	ok, err := repo.CompareAndSetBalance(ctx, id, 50, 0)
	require.NoError(t, err)
	assert.False(t, ok, "stale expected value must not win")

	ok, err = repo.CompareAndSetBalance(ctx, id, 100, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	acct, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, acct.Balance)
}

func TestAddToBalance_Overdraw(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	id := seedAccount(t, uow)

	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	_, err = repo.AddToBalance(ctx, id, 20)
	require.NoError(t, err)
	_, err = repo.AddToBalance(ctx, id, -50)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestAddToBalance_ConcurrentAutocommit(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	id := seedAccount(t, uow)

	repo, err := uow.AccountRepository()
	require.NoError(t, err)

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := repo.AddToBalance(ctx, id, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	acct, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, workers*perWorker, acct.Balance, "no increment lost")
}

func TestDecrement_Guard(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	repo, err := uow.ProductRepository()
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, repo.Create(ctx, dto.ProductCreate{
		ID: id, Name: "cola", Price: 65, Quantity: 2, OwnerID: uuid.New(),
	}))

	ok, err := repo.Decrement(ctx, id, 3)
	require.NoError(t, err)
	assert.False(t, ok, "cannot take more units than remain")

	ok, err = repo.Decrement(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	prod, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, prod.Quantity)
}

func TestDo_RollsBackOnError(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	id := seedAccount(t, uow)

	sentinel := errors.New("boom")
	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		repo, err := tx.AccountRepository()
		require.NoError(t, err)
		if _, err := repo.AddToBalance(ctx, id, 100); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	acct, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, acct.Balance, "staged write must not survive a failed transaction")
}

func TestDo_CommitIsVisible(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	id := seedAccount(t, uow)

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		repo, err := tx.AccountRepository()
		if err != nil {
			return err
		}
		_, err = repo.AddToBalance(ctx, id, 100)
		return err
	})
	require.NoError(t, err)

	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	acct, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 100, acct.Balance)
}

func TestDo_NestedJoinsTransaction(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	id := seedAccount(t, uow)

	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		return tx.Do(ctx, func(inner repository.UnitOfWork) error {
			repo, err := inner.AccountRepository()
			if err != nil {
				return err
			}
			_, err = repo.AddToBalance(ctx, id, 5)
			return err
		})
	})
	require.NoError(t, err)

	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	acct, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 5, acct.Balance)
}

func TestDo_DeadlineAbortsInsteadOfBlocking(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	uow := memory.NewUoW(store)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = uow.Do(ctx, func(repository.UnitOfWork) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	shortCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err := memory.NewUoW(store).Do(shortCtx, func(repository.UnitOfWork) error {
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict, "lock wait failure must be retryable")
}

func TestReads_DoNotBlockOnWriters(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	uow := memory.NewUoW(store)
	ctx := context.Background()
	id := seedAccount(t, uow)

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = uow.Do(ctx, func(repository.UnitOfWork) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	done := make(chan error, 1)
	go func() {
		repo, err := memory.NewUoW(store).AccountRepository()
		if err != nil {
			done <- err
			return
		}
		_, err = repo.Get(ctx, id)
		done <- err
	}()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("read blocked behind an open transaction")
	}
}

func TestTransactionLedger_AppendAndList(t *testing.T) {
	t.Parallel()
	uow := memory.NewUoW(memory.NewStore())
	ctx := context.Background()
	buyer := uuid.New()

	ledger, err := uow.TransactionRepository()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, ledger.Create(ctx, dto.TransactionCreate{
			ID:         uuid.New(),
			BuyerID:    buyer,
			ProductID:  uuid.New(),
			Quantity:   1,
			TotalSpent: 5,
			Change:     []int64{},
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	txns, err := ledger.ListByBuyer(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	for i := 1; i < len(txns); i++ {
		assert.True(t, !txns[i-1].CreatedAt.Before(txns[i].CreatedAt),
			"ledger must list newest first")
	}

	other, err := ledger.ListByBuyer(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
