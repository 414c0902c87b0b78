// Package account defines the account aggregate: credentials, role,
// coin balance and the single active session slot.
package account

import (
	"errors"
	"time"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUsernameEmpty is returned when an account is created without a username.
	ErrUsernameEmpty = errors.New("username cannot be empty")
	// ErrPasswordEmpty is returned when an account is created without a password.
	ErrPasswordEmpty = errors.New("password cannot be empty")
)

// Account represents a registered buyer or seller.
//
// Invariants:
//   - Balance is in minor units and never negative.
//   - Username is unique across the store (case-sensitive).
//   - At most one session token is active at any time; ActiveToken is
//     empty when no session is active.
type Account struct {
	ID             uuid.UUID
	Username       string
	HashedPassword string
	Role           domain.Role
	Balance        int64
	ActiveToken    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New creates an Account with a hashed password and a zero balance.
func New(username, password string, role domain.Role) (*Account, error) {
	if username == "" {
		return nil, ErrUsernameEmpty
	}
	if password == "" {
		return nil, ErrPasswordEmpty
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Account{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: hashed,
		Role:           role,
		Balance:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewFromData hydrates an Account from raw store data.
func NewFromData(
	id uuid.UUID,
	username, hashedPassword string,
	role domain.Role,
	balance int64,
	activeToken string,
	created, updated time.Time,
) *Account {
	return &Account{
		ID:             id,
		Username:       username,
		HashedPassword: hashedPassword,
		Role:           role,
		Balance:        balance,
		ActiveToken:    activeToken,
		CreatedAt:      created,
		UpdatedAt:      updated,
	}
}
