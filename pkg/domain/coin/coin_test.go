package coin_test

import (
	"testing"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/domain/coin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	t.Parallel()
	for _, d := range []int64{5, 10, 20, 50, 100} {
		assert.True(t, coin.Valid(d), "expected %d to be accepted", d)
	}
	for _, v := range []int64{0, 1, 2, 25, 200, -5} {
		assert.False(t, coin.Valid(v), "expected %d to be rejected", v)
	}
}

func TestMakeChange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		amount   int64
		expected []int64
		wantErr  bool
	}{
		{"zero amount", 0, []int64{}, false},
		{"single coin", 100, []int64{100}, false},
		{"smallest coin", 5, []int64{5}, false},
		{"mixed coins", 185, []int64{100, 50, 20, 10, 5}, false},
		{"two of a kind", 40, []int64{20, 20}, false},
		{"prefers large coins", 150, []int64{100, 50}, false},
		{"negative amount", -5, nil, true},
		{"not a multiple of 5", 7, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			change, err := coin.MakeChange(tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, change)
		})
	}
}

func TestMakeChange_SumsToAmount(t *testing.T) {
	t.Parallel()
	for amount := int64(0); amount <= 500; amount += 5 {
		change, err := coin.MakeChange(amount)
		require.NoError(t, err)
		var sum int64
		for _, c := range change {
			require.True(t, coin.Valid(c), "change contains invalid coin %d", c)
			sum += c
		}
		assert.Equal(t, amount, sum, "change for %d does not sum back", amount)
	}
}
