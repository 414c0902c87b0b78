package dto

import (
	"time"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/google/uuid"
)

// AccountCreate represents the data needed to persist a new account.
type AccountCreate struct {
	ID             uuid.UUID
	Username       string
	HashedPassword string
	Role           domain.Role
}

// AccountUpdate represents the fields that can be patched on an account.
// Nil fields are left untouched.
type AccountUpdate struct {
	Username       *string
	HashedPassword *string
	Role           *domain.Role
	Balance        *int64
	ActiveToken    *string
}

// AccountRead is the read model returned by account repositories.
// HashedPassword and ActiveToken are service-internal and never leave
// the transport boundary.
type AccountRead struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Role           domain.Role `json:"role"`
	Balance        int64       `json:"balance"`
	HashedPassword string      `json:"-"`
	ActiveToken    string      `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
