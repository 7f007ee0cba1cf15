package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/jastip-settlement/pkg/checkout"
	"github.com/chris/jastip-settlement/pkg/events"
	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/orders"
	"github.com/chris/jastip-settlement/pkg/settlement"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// maxConflictRetries bounds how often a transition is retried after losing an optimistic-lock race.
const maxConflictRetries = 3

// BuildOrders checks out a buyer's cart: one PENDING order per line, one stock decrement per line
// and a single PAYMENT debit for the grand total, all committed together or not at all.
func (s *Service) BuildOrders(ctx context.Context, buyerID string, lines []models.CartLine, dest *models.Coordinate, address string) ([]models.Order, error) {
	buyer, err := s.store.GetAccount(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer account: %w", err)
	}
	if buyer.Role != models.BUYER {
		return nil, fmt.Errorf("%w: account %s is not a buyer", ErrInvalidCheckout, buyerID)
	}

	cart := make([]checkout.Line, 0, len(lines))
	for _, l := range lines {
		product, err := s.store.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to get product: %w", err)
		}
		cart = append(cart, checkout.Line{Product: *product, Quantity: l.Quantity})
	}

	now := s.now()
	plan, err := checkout.Build(checkout.Request{
		CheckoutID:  s.newID(),
		BuyerID:     buyerID,
		Lines:       cart,
		Destination: dest,
		Address:     address,
		Now:         now,
	}, s.schedule, s.newID)
	if err != nil {
		return nil, err
	}

	if plan.GrandTotal > buyer.Balance {
		return nil, fmt.Errorf("%w: balance %d, checkout total %d", ErrInsufficientFunds, buyer.Balance, plan.GrandTotal)
	}

	commit := &models.Checkout{
		ID:         plan.CheckoutID,
		BuyerID:    buyerID,
		Orders:     plan.Orders,
		Decrements: plan.Decrements,
		Entries:    ledger.Entries([]models.Posting{plan.Payment}, now, s.newID),
	}
	if err := s.store.CommitCheckout(ctx, commit); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	s.logger.InfoContext(ctx, "checkout committed",
		slog.String("checkout_id", plan.CheckoutID),
		slog.String("account_id", buyerID),
		slog.Int("orders", len(plan.Orders)),
		slog.Int64("total", plan.GrandTotal),
	)
	for _, o := range plan.Orders {
		s.publish(ctx, events.OrderCreated, o.Id, events.OrderCreatedPayload{
			OrderID:    o.Id,
			CheckoutID: o.CheckoutID,
			BuyerID:    o.BuyerID,
			SellerID:   o.SellerID,
			ProductID:  o.ProductID,
			Quantity:   o.Quantity,
			Total:      o.TotalChargedToBuyer,
		})
	}
	return plan.Orders, nil
}

// Transition moves an order to target on behalf of actor. Fund movements tied to the
// transition (the driver's pickup fee, the settlement payout) commit in the same unit.
func (s *Service) Transition(ctx context.Context, orderID string, target models.OrderStatus, actor models.Actor) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	for attempt := 1; ; attempt++ {
		var (
			from   models.OrderStatus
			payout *settlement.Payout
		)
		updated, err := s.store.UpdateOrder(ctx, orderID, func(o *models.Order) ([]models.Transaction, error) {
			from = o.Status
			if err := orders.Authorize(o, target, actor); err != nil {
				return nil, err
			}
			postings, p, err := s.apply(o, target, actor)
			if err != nil {
				return nil, err
			}
			payout = p
			return ledger.Entries(postings, o.UpdatedAt, s.newID), nil
		})
		if errors.Is(err, storage.ErrConflict) && attempt < maxConflictRetries {
			s.logger.WarnContext(ctx, "order update conflict, retrying",
				slog.String("order_id", orderID),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.InfoContext(ctx, "order transitioned",
			slog.String("order_id", orderID),
			slog.String("from", string(from)),
			slog.String("to", string(target)),
			slog.String("actor_id", actor.ID),
		)
		s.publish(ctx, events.OrderStatusChanged, orderID, events.OrderStatusChangedPayload{
			OrderID:   orderID,
			From:      string(from),
			To:        string(target),
			ActorID:   actor.ID,
			ActorRole: string(actor.Role),
		})
		if payout != nil {
			s.publish(ctx, events.OrderSettled, orderID, events.OrderSettledPayload{
				OrderID:      orderID,
				SellerID:     payout.SellerID,
				DriverID:     payout.DriverID,
				SellerIncome: payout.SellerIncome,
				DriverIncome: payout.DriverIncome,
				PlatformFee:  payout.PlatformFee,
				ServiceFee:   payout.ServiceFee,
			})
		}
		return updated, nil
	}
}

// apply mutates an authorized order and returns the postings the transition requires.
func (s *Service) apply(o *models.Order, target models.OrderStatus, actor models.Actor) ([]models.Posting, *settlement.Payout, error) {
	now := s.now()
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case models.DRIVER_EN_ROUTE_PICKUP:
		o.DriverID = actor.ID
		o.DriverName = actor.Name
		if s.schedule.DriverPickupFee == 0 {
			return nil, nil, nil
		}
		ref := o.Id
		debit, err := ledger.Debit(actor.ID, models.PAYMENT, s.schedule.DriverPickupFee, fmt.Sprintf("Pickup fee for order %s", o.Id), ref)
		if err != nil {
			return nil, nil, err
		}
		credit, err := ledger.Credit(s.platformAccountID, models.INCOME, s.schedule.DriverPickupFee, fmt.Sprintf("Driver pickup fee for order %s", o.Id), ref)
		if err != nil {
			return nil, nil, err
		}
		return []models.Posting{debit, credit}, nil, nil

	case models.COMPLETED:
		payout, err := settlement.Compute(o, s.schedule)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compute settlement: %w", err)
		}
		postings, err := payout.Postings(s.platformAccountID)
		if err != nil {
			return nil, nil, err
		}
		o.Settled = true
		o.CompletedAt = &now
		return postings, &payout, nil
	}
	return nil, nil, nil
}

// GetOrder returns a point-in-time view of an order.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

// ListOrders returns the orders matching filter, newest first.
func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, filter.Status)
	}
	return s.store.ListOrders(ctx, filter)
}
