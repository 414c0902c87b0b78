package domain

import (
	"fmt"
	"strings"
)

// ErrInvalidRole is returned when a role is neither buyer nor seller.
var ErrInvalidRole = fmt.Errorf("%w: role must be buyer or seller", ErrValidation)

// Role determines which operations an account may perform. Buyers
// deposit coins and purchase; sellers own and manage product listings.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(s)) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleSeller:
		return RoleSeller, nil
	default:
		return "", ErrInvalidRole
	}
}
