package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned on uniqueness violations and when an
	// optimistic commit loses its race after the retry budget is spent
	ErrConflict = errors.New("resource conflict")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthenticated is returned when no valid credential accompanies a request
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when a user is not allowed to perform an action
	ErrForbidden = errors.New("forbidden")
)

// Authentication errors. Expired and revoked tokens are still
// unauthenticated callers, so both wrap ErrUnauthenticated.
var (
	// ErrInvalidCredentials is returned when a username/password pair does not match
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrTokenExpired is returned when a session token is past its expiry
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	// ErrSessionInvalid is returned when a token verifies cryptographically
	// but is no longer in the account's active session set
	ErrSessionInvalid = fmt.Errorf("%w: session revoked", ErrUnauthenticated)
	// ErrSessionActive is returned when a login is attempted while the
	// account already holds an active session
	ErrSessionActive = errors.New("an active session already exists for this account")
	// ErrNoActiveSession is returned when revoking sessions on an account that has none
	ErrNoActiveSession = errors.New("no active session")
)

// State errors
var (
	// ErrInsufficientFunds is returned when a debit would drive a balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrOutOfStock is returned when a purchase asks for more units than are available
	ErrOutOfStock = errors.New("out of stock")
)
