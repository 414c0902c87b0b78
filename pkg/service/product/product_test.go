package product_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/coinshop/infra/memory"
	"github.com/amirasaad/coinshop/pkg/domain"
	productdomain "github.com/amirasaad/coinshop/pkg/domain/product"
	"github.com/amirasaad/coinshop/pkg/dto"
	accountsvc "github.com/amirasaad/coinshop/pkg/service/account"
	productsvc "github.com/amirasaad/coinshop/pkg/service/product"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	products *productsvc.Service
	accounts *accountsvc.Service
	seller   *dto.AccountRead
	buyer    *dto.AccountRead
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	uow := memory.NewUoW(memory.NewStore())
	logger := slog.Default()
	f := &fixture{
		products: productsvc.New(uow, logger),
		accounts: accountsvc.New(uow, logger),
	}
	ctx := context.Background()
	var err error
	f.seller, err = f.accounts.Register(ctx, "seller", "s3cret", "seller")
	require.NoError(t, err)
	f.buyer, err = f.accounts.Register(ctx, "buyer", "s3cret", "buyer")
	require.NoError(t, err)
	return f
}

func TestCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	prod, err := f.products.Create(ctx, "cola", 65, 10, f.seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "cola", prod.Name)
	assert.Equal(t, f.seller.ID, prod.OwnerID)
}

func TestCreate_BuyerForbidden(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.products.Create(context.Background(), "cola", 65, 10, f.buyer.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_DuplicateName(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.products.Create(ctx, "cola", 65, 10, f.seller.ID)
	require.NoError(t, err)
	_, err = f.products.Create(ctx, "cola", 50, 5, f.seller.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_InvalidPrice(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.products.Create(context.Background(), "cola", 63, 10, f.seller.ID)
	assert.ErrorIs(t, err, productdomain.ErrInvalidPrice)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	prod, err := f.products.Create(ctx, "cola", 65, 10, f.seller.ID)
	require.NoError(t, err)

	other, err := f.accounts.Register(ctx, "rival", "s3cret", "seller")
	require.NoError(t, err)

	price := int64(70)
	_, err = f.products.Update(ctx, prod.ID, dto.ProductUpdate{Price: &price}, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.products.Update(ctx, prod.ID, dto.ProductUpdate{Price: &price}, f.seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 70, updated.Price)
}

func TestUpdate_QuantityToZeroAllowed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	prod, err := f.products.Create(ctx, "cola", 65, 10, f.seller.ID)
	require.NoError(t, err)

	zero := int64(0)
	updated, err := f.products.Update(ctx, prod.ID, dto.ProductUpdate{Quantity: &zero}, f.seller.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.Quantity)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	prod, err := f.products.Create(ctx, "cola", 65, 10, f.seller.ID)
	require.NoError(t, err)

	err = f.products.Delete(ctx, prod.ID, f.buyer.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.products.Delete(ctx, prod.ID, f.seller.ID))
	_, err = f.products.Get(ctx, prod.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecrementQuantity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	prod, err := f.products.Create(ctx, "cola", 65, 2, f.seller.ID)
	require.NoError(t, err)

	require.NoError(t, f.products.DecrementQuantity(ctx, prod.ID, 2))
	err = f.products.DecrementQuantity(ctx, prod.ID, 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.products.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
