package domain

import "errors"

// Ledger errors. Every state transition reports one of these on failure
// and performs no mutation.
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyProcessed  = errors.New("record already processed")
	ErrInsufficientFunds = errors.New("insufficient savings balance")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrForbidden         = errors.New("forbidden")
)

// ErrProfileMissing is a data-integrity error: an authenticated account that
// should own a Member/Staff profile has none. Surfaced distinctly from
// ordinary validation failures.
var ErrProfileMissing = errors.New("profile record missing for account")

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
)
