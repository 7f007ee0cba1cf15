package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// GetProduct retrieves a product snapshot.
func (s *Store) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, storage.ErrNotFound)
	}
	return &p, nil
}

// PutProduct creates or replaces a product.
func (s *Store) PutProduct(ctx context.Context, product *models.Product) error {
	unlock := s.locks.lock(productKey(product.Id))
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.Id] = *product
	return nil
}

// GetOrder retrieves an order by id.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNotFound)
	}
	return &o, nil
}

// ListOrders returns the orders matching filter, newest first.
func (s *Store) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if filter.Matches(&o) {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].Id < orders[j].Id
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// CommitCheckout creates the orders, decrements stock and applies the payment in one step.
func (s *Store) CommitCheckout(ctx context.Context, checkout *models.Checkout) error {
	keys := accountKeys(checkout.Entries)
	for _, d := range checkout.Decrements {
		keys = append(keys, productKey(d.ProductID))
	}
	unlock := s.locks.lock(keys...)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := make(map[string]int64)
	for _, d := range checkout.Decrements {
		p, ok := s.products[d.ProductID]
		if !ok {
			return fmt.Errorf("product %s: %w", d.ProductID, storage.ErrNotFound)
		}
		if _, seen := remaining[d.ProductID]; !seen {
			remaining[d.ProductID] = p.Stock
		}
		remaining[d.ProductID] -= d.Quantity
		if remaining[d.ProductID] < 0 {
			return fmt.Errorf("product %s: %w", d.ProductID, storage.ErrInsufficientStock)
		}
	}
	for _, o := range checkout.Orders {
		if _, ok := s.orders[o.Id]; ok {
			return fmt.Errorf("order %s: %w", o.Id, storage.ErrAlreadyExists)
		}
	}

	// applyLocked validates before it writes, so a failure here leaves everything untouched.
	if err := s.applyLocked(checkout.Entries); err != nil {
		return err
	}
	for id, stock := range remaining {
		p := s.products[id]
		p.Stock = stock
		s.products[id] = p
	}
	for _, o := range checkout.Orders {
		s.orders[o.Id] = o
	}
	return nil
}

// UpdateOrder runs fn while holding the order's lock and commits the result atomically.
func (s *Store) UpdateOrder(ctx context.Context, orderID string, fn storage.OrderMutation) (*models.Order, error) {
	unlockOrder := s.locks.lock(orderKey(orderID))
	defer unlockOrder()

	current, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	updated := *current
	entries, err := fn(&updated)
	if err != nil {
		return nil, err
	}
	updated.Id = current.Id
	updated.Version = current.Version + 1

	unlockAccounts := s.locks.lock(accountKeys(entries)...)
	defer unlockAccounts()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyLocked(entries); err != nil {
		return nil, err
	}
	s.orders[orderID] = updated
	return &updated, nil
}
