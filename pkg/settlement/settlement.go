// Package settlement computes the one-time fund release for a completed order.
package settlement

import (
	"fmt"

	"github.com/chris/jastip-settlement/pkg/fees"
	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
)

// Payout is the split of an order's escrowed funds between seller, driver and platform.
type Payout struct {
	OrderID      string
	SellerID     string
	DriverID     string
	Subtotal     int64
	PlatformFee  int64
	SellerIncome int64
	DriverIncome int64
	ServiceFee   int64
	ShippingFee  int64
}

// Compute derives the payout for an order from the fee schedule.
func Compute(order *models.Order, schedule fees.Schedule) (Payout, error) {
	if order.UnitPrice < 0 || order.Quantity <= 0 || order.ShippingFee < 0 || order.BuyerServiceFee < 0 {
		return Payout{}, fmt.Errorf("order %s has invalid amounts", order.Id)
	}

	subtotal := order.Subtotal()
	platformFee := schedule.SaleFee(subtotal)
	p := Payout{
		OrderID:      order.Id,
		SellerID:     order.SellerID,
		DriverID:     order.DriverID,
		Subtotal:     subtotal,
		PlatformFee:  platformFee,
		SellerIncome: subtotal - platformFee,
		ServiceFee:   order.BuyerServiceFee,
		ShippingFee:  order.ShippingFee,
	}
	if order.HasDriver() {
		p.DriverIncome = order.ShippingFee
	}
	if err := p.Check(); err != nil {
		return Payout{}, err
	}
	return p, nil
}

// Check asserts that the payout conserves the order's funds.
func (p Payout) Check() error {
	if p.SellerIncome+p.PlatformFee != p.Subtotal {
		return fmt.Errorf("order %s: seller income %d plus platform fee %d does not equal subtotal %d",
			p.OrderID, p.SellerIncome, p.PlatformFee, p.Subtotal)
	}
	if p.DriverID != "" && p.DriverIncome != p.ShippingFee {
		return fmt.Errorf("order %s: driver income %d does not equal shipping fee %d",
			p.OrderID, p.DriverIncome, p.ShippingFee)
	}
	if p.SellerIncome < 0 || p.PlatformFee < 0 {
		return fmt.Errorf("order %s: negative payout", p.OrderID)
	}
	return nil
}

// Postings returns the ledger credits that release the payout. Zero amounts are skipped.
func (p Payout) Postings(platformAccountID string) ([]models.Posting, error) {
	type credit struct {
		account     string
		amount      int64
		description string
	}
	credits := []credit{
		{p.SellerID, p.SellerIncome, fmt.Sprintf("Sale income for order %s", p.OrderID)},
		{p.DriverID, p.DriverIncome, fmt.Sprintf("Delivery income for order %s", p.OrderID)},
		{platformAccountID, p.PlatformFee, fmt.Sprintf("Sale commission for order %s", p.OrderID)},
		{platformAccountID, p.ServiceFee, fmt.Sprintf("Buyer service fee for order %s", p.OrderID)},
	}

	postings := make([]models.Posting, 0, len(credits))
	for _, c := range credits {
		if c.amount == 0 || c.account == "" {
			continue
		}
		posting, err := ledger.Credit(c.account, models.INCOME, c.amount, c.description, p.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to build settlement posting: %w", err)
		}
		postings = append(postings, posting)
	}
	return postings, nil
}
