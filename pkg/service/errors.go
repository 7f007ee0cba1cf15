package service

import (
	"errors"

	"github.com/chris/jastip-settlement/pkg/checkout"
	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/orders"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// The error taxonomy returned by the service. All of these are recoverable and meant for the caller.
var (
	ErrInvalidCheckout   = checkout.ErrInvalidCheckout
	ErrInvalidTransition = orders.ErrInvalidTransition
	ErrInvalidAmount     = ledger.ErrInvalidAmount
	ErrInsufficientFunds = storage.ErrInsufficientFunds
	ErrInsufficientStock = storage.ErrInsufficientStock
	ErrNotFound          = storage.ErrNotFound
	ErrAlreadyExists     = storage.ErrAlreadyExists
	ErrConflict          = storage.ErrConflict

	// ErrUnverified is returned when a withdrawal is attempted by an account the platform has not verified.
	ErrUnverified = errors.New("account is not verified")

	// ErrBelowMinimum is returned when a withdrawal or top-up is under the configured floor.
	ErrBelowMinimum = errors.New("amount is below the minimum")

	// ErrInvalidRequest is returned for malformed input that is not covered by a more specific error.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrForbidden is returned when the actor may not act on the requested resource.
	ErrForbidden = errors.New("forbidden")
)
