package domain

import (
	"errors"
	"fmt"
)

var (
	// Not found
	ErrAccountNotFound  = errors.New("account not found")
	ErrMovementNotFound = errors.New("movement not found")
	ErrClientNotFound   = errors.New("client not found")

	// Account errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInactiveAccount   = errors.New("account is inactive")
	ErrDuplicateAccount  = errors.New("account number already exists")

	// Movement errors
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be non-zero", ErrInvalidInput)
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrInvalidMovementType = errors.New("movement type must be CREDIT or DEBIT")

	// Client errors
	ErrDuplicateClient = errors.New("client identification already exists")

	// Concurrency
	ErrConflict         = errors.New("conflict")
	ErrConcurrentUpdate = errors.New("account was modified concurrently")

	// Cross-service
	ErrUpstreamUnavailable = errors.New("client service unavailable")
)
