package storage

import (
	"context"

	"github.com/chris/jastip-settlement/pkg/models"
)

// OrderReader defines the interface for reading orders.
type OrderReader interface {
	// GetOrder retrieves an order by its id.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// ListOrders retrieves the orders matching filter, newest first.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
}

// OrderMutation changes an order in place and returns the ledger entries that must be
// committed with it. Returning an error aborts the update without writing anything.
type OrderMutation func(order *models.Order) ([]models.Transaction, error)
