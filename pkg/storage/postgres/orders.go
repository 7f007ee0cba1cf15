package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, checkout_id, buyer_id, seller_id, driver_id, driver_name, product_id, product_name,
	quantity, unit_price, distance_km, shipping_fee, buyer_service_fee, total_charged_to_buyer,
	status, delivery_address, dest_lat, dest_lon, settled, version, created_at, updated_at, completed_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		o      models.Order
		status string
	)
	err := row.Scan(&o.Id, &o.CheckoutID, &o.BuyerID, &o.SellerID, &o.DriverID, &o.DriverName, &o.ProductID, &o.ProductName,
		&o.Quantity, &o.UnitPrice, &o.DistanceKm, &o.ShippingFee, &o.BuyerServiceFee, &o.TotalChargedToBuyer,
		&status, &o.DeliveryAddress, &o.Destination.Lat, &o.Destination.Lon, &o.Settled, &o.Version,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	return &o, nil
}

// GetOrder retrieves an order by its id.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := scanOrder(s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return nil, translate(err, "get order "+orderID)
	}
	return o, nil
}

// orderQuery builds the listing query for filter.
func orderQuery(filter models.OrderFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.BuyerID != "" {
		add("buyer_id = $%d", filter.BuyerID)
	}
	if filter.SellerID != "" {
		add("seller_id = $%d", filter.SellerID)
	}
	if filter.DriverID != "" {
		add("driver_id = $%d", filter.DriverID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Unassigned {
		where = append(where, "driver_id = ''")
	}

	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id ASC`
	return q, args
}

// ListOrders retrieves the orders matching filter, newest first.
func (s *Store) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	q, args := orderQuery(filter)
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, translate(err, "list orders")
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list orders")
	}
	return orders, nil
}

// CommitCheckout decrements stock, inserts the orders and applies the payment in one transaction.
func (s *Store) CommitCheckout(ctx context.Context, checkout *models.Checkout) error {
	quantities := make(map[string]int64)
	for _, d := range checkout.Decrements {
		quantities[d.ProductID] += d.Quantity
	}
	productIDs := make([]string, 0, len(quantities))
	for id := range quantities {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, id := range productIDs {
			var stock int64
			err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&stock)
			if err != nil {
				return translate(err, "lock product "+id)
			}
			if stock < quantities[id] {
				return fmt.Errorf("product %s has %d, %d requested: %w", id, stock, quantities[id], storage.ErrInsufficientStock)
			}
			if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id = $1`, id, quantities[id]); err != nil {
				return translate(err, "decrement stock")
			}
		}

		for _, o := range checkout.Orders {
			if err := insertOrder(ctx, tx, &o); err != nil {
				return err
			}
		}
		return applyEntries(ctx, tx, checkout.Entries)
	})
}

func insertOrder(ctx context.Context, tx pgx.Tx, o *models.Order) error {
	_, err := tx.Exec(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		o.Id, o.CheckoutID, o.BuyerID, o.SellerID, o.DriverID, o.DriverName, o.ProductID, o.ProductName,
		o.Quantity, o.UnitPrice, o.DistanceKm, o.ShippingFee, o.BuyerServiceFee, o.TotalChargedToBuyer,
		string(o.Status), o.DeliveryAddress, o.Destination.Lat, o.Destination.Lon, o.Settled, o.Version,
		o.CreatedAt, o.UpdatedAt, o.CompletedAt)
	if err != nil {
		return translate(err, "insert order "+o.Id)
	}
	return nil
}

// UpdateOrder locks the order row, applies fn and writes the order and entries in one transaction.
func (s *Store) UpdateOrder(ctx context.Context, orderID string, fn storage.OrderMutation) (*models.Order, error) {
	var updated models.Order
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		current, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, orderID))
		if err != nil {
			return translate(err, "lock order "+orderID)
		}

		updated = *current
		entries, err := fn(&updated)
		if err != nil {
			return err
		}
		updated.Id = current.Id
		updated.Version = current.Version + 1

		if err := applyEntries(ctx, tx, entries); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE orders SET driver_id = $3, driver_name = $4, status = $5, settled = $6, version = $7,
				updated_at = $8, completed_at = $9
			WHERE id = $1 AND version = $2`,
			orderID, current.Version, updated.DriverID, updated.DriverName, string(updated.Status), updated.Settled,
			updated.Version, updated.UpdatedAt, updated.CompletedAt)
		if err != nil {
			return translate(err, "update order "+orderID)
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("order %s: %w", orderID, storage.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
