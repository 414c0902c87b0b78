package product_test

import (
	"testing"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/domain/product"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	prod, err := product.New("cola", 65, 10, owner)
	require.NoError(t, err)
	assert.Equal(t, "cola", prod.Name)
	assert.EqualValues(t, 65, prod.Price)
	assert.EqualValues(t, 10, prod.Quantity)
	assert.Equal(t, owner, prod.OwnerID)
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	tests := []struct {
		name     string
		prodName string
		price    int64
		quantity int64
		wantErr  error
	}{
		{"empty name", "", 65, 10, product.ErrNameEmpty},
		{"zero price", "cola", 0, 10, product.ErrInvalidPrice},
		{"negative price", "cola", -5, 10, product.ErrInvalidPrice},
		{"price not multiple of 5", "cola", 63, 10, product.ErrInvalidPrice},
		{"zero quantity", "cola", 65, 0, product.ErrInvalidQuantity},
		{"negative quantity", "cola", 65, -1, product.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := product.New(tt.prodName, tt.price, tt.quantity, owner)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
