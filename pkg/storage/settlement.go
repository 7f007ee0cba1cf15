package storage

import (
	"context"

	"github.com/chris/jastip-settlement/pkg/models"
)

// OrderWriter defines the privileged operations that move orders and money together.
type OrderWriter interface {
	// CommitCheckout atomically creates the orders, decrements stock and applies the
	// buyer's payment entries. It returns ErrInsufficientFunds or ErrInsufficientStock
	// if a condition fails at commit time, in which case nothing is written.
	CommitCheckout(ctx context.Context, checkout *models.Checkout) error

	// UpdateOrder runs fn against the current order inside a single-writer scope for that order,
	// then stores the mutated order and the returned entries as one atomic unit.
	// It returns ErrConflict if a concurrent writer won the race; the caller may retry.
	UpdateOrder(ctx context.Context, orderID string, fn OrderMutation) (*models.Order, error)
}

// SettlementStore defines the highly-privileged interface for everything that moves funds.
// It should only be exposed to the component responsible for checkout and settlement.
type SettlementStore interface {
	LedgerWriter
	OrderWriter
}
