// Package coin holds the fixed denomination set accepted by the shop
// and the change decomposition used when a purchase settles.
package coin

import (
	"fmt"

	"github.com/amirasaad/coinshop/pkg/domain"
)

var (
	// ErrInvalidCoin is returned when a deposited coin is not an accepted denomination.
	ErrInvalidCoin = fmt.Errorf(
		"%w: only 5, 10, 20, 50 and 100 cent coins are accepted", domain.ErrValidation)
	// ErrNotChangeable is returned when an amount cannot be decomposed
	// into the accepted denominations.
	ErrNotChangeable = fmt.Errorf(
		"%w: amount must be a non-negative multiple of 5", domain.ErrValidation)
)

// Denominations lists the accepted coin values in minor units, largest
// first. MakeChange depends on the descending order.
var Denominations = []int64{100, 50, 20, 10, 5}

// Valid reports whether v is an accepted denomination.
func Valid(v int64) bool {
	for _, d := range Denominations {
		if v == d {
			return true
		}
	}
	return false
}

// MakeChange decomposes amount greedily over the denominations, largest
// first. For this denomination set the greedy split is also the minimum
// coin count. Deposits and prices are denomination-constrained, so every
// reachable amount is a non-negative multiple of 5; anything else is
// rejected rather than silently rounded.
func MakeChange(amount int64) ([]int64, error) {
	if amount < 0 || amount%5 != 0 {
		return nil, ErrNotChangeable
	}
	change := make([]int64, 0, 4)
	remaining := amount
	for _, d := range Denominations {
		for remaining >= d {
			change = append(change, d)
			remaining -= d
		}
	}
	return change, nil
}
