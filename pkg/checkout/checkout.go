// Package checkout turns a buyer's cart into priced orders grouped by seller.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/chris/jastip-settlement/pkg/fees"
	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// ErrInvalidCheckout is returned when a cart or delivery point cannot be checked out.
var ErrInvalidCheckout = errors.New("invalid checkout")

// MaxLines caps a cart so that a whole checkout fits in one storage transaction.
const MaxLines = 40

// Line is a cart line with the product snapshot read at checkout time.
type Line struct {
	Product  models.Product
	Quantity int64
}

// Request is the input to Build.
type Request struct {
	CheckoutID  string
	BuyerID     string
	Lines       []Line
	Destination *models.Coordinate
	Address     string
	Now         time.Time
}

// Group is the share of a cart shipped by one seller. It is not persisted.
type Group struct {
	SellerID    string
	Origin      *models.Coordinate
	Indexes     []int
	DistanceKm  float64
	ShippingFee int64
}

// Plan is the priced result of a checkout, ready to be committed.
type Plan struct {
	CheckoutID    string
	Orders        []models.Order
	Groups        []Group
	Decrements    []models.StockDecrement
	Payment       models.Posting
	Subtotal      int64
	ShippingTotal int64
	ServiceFee    int64
	GrandTotal    int64
}

// GroupBySeller partitions line indexes by seller. Sellers appear in order of their first line.
func GroupBySeller(lines []Line) []Group {
	var groups []Group
	bySeller := make(map[string]int)
	for i, l := range lines {
		idx, ok := bySeller[l.Product.SellerID]
		if !ok {
			idx = len(groups)
			bySeller[l.Product.SellerID] = idx
			groups = append(groups, Group{SellerID: l.Product.SellerID, Origin: l.Product.Origin})
		}
		groups[idx].Indexes = append(groups[idx].Indexes, i)
	}
	return groups
}

// Build validates the cart, prices every seller group and materializes one PENDING order per line.
func Build(req Request, schedule fees.Schedule, newID func() string) (*Plan, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	groups := GroupBySeller(req.Lines)
	shipping := make([]int64, len(req.Lines))
	var shippingTotal int64
	for gi := range groups {
		g := &groups[gi]
		if g.Origin != nil {
			if !g.Origin.Valid() {
				return nil, fmt.Errorf("seller %s has malformed origin coordinates %+v", g.SellerID, *g.Origin)
			}
			g.DistanceKm = fees.DistanceKm(*g.Origin, *req.Destination)
		}
		g.ShippingFee = schedule.ShippingFee(g.DistanceKm)
		shippingTotal += g.ShippingFee

		for i, share := range fees.Split(g.ShippingFee, len(g.Indexes)) {
			shipping[g.Indexes[i]] = share
		}
	}

	serviceShares := fees.Split(schedule.BuyerServiceFee, len(req.Lines))
	distance := make([]float64, len(req.Lines))
	for _, g := range groups {
		for _, i := range g.Indexes {
			distance[i] = g.DistanceKm
		}
	}

	plan := &Plan{
		CheckoutID:    req.CheckoutID,
		Groups:        groups,
		ShippingTotal: shippingTotal,
		ServiceFee:    schedule.BuyerServiceFee,
	}
	for i, l := range req.Lines {
		subtotal := l.Product.Price * l.Quantity
		order := models.Order{
			Id:                  newID(),
			CheckoutID:          req.CheckoutID,
			BuyerID:             req.BuyerID,
			SellerID:            l.Product.SellerID,
			ProductID:           l.Product.Id,
			ProductName:         l.Product.Name,
			Quantity:            l.Quantity,
			UnitPrice:           l.Product.Price,
			DistanceKm:          distance[i],
			ShippingFee:         shipping[i],
			BuyerServiceFee:     serviceShares[i],
			TotalChargedToBuyer: subtotal + shipping[i] + serviceShares[i],
			Status:              models.PENDING,
			DeliveryAddress:     req.Address,
			Destination:         *req.Destination,
			Version:             1,
			CreatedAt:           req.Now,
			UpdatedAt:           req.Now,
		}
		plan.Orders = append(plan.Orders, order)
		plan.Decrements = append(plan.Decrements, models.StockDecrement{ProductID: l.Product.Id, Quantity: l.Quantity})
		plan.Subtotal += subtotal
		plan.GrandTotal += order.TotalChargedToBuyer
	}

	if plan.GrandTotal == 0 {
		return nil, fmt.Errorf("%w: checkout total is zero, the fee schedule charges nothing for free products", ErrInvalidCheckout)
	}
	payment, err := ledger.Debit(req.BuyerID, models.PAYMENT, plan.GrandTotal,
		fmt.Sprintf("Checkout of %d item(s)", len(req.Lines)), req.CheckoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}
	plan.Payment = payment
	return plan, nil
}

func validate(req Request) error {
	if len(req.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidCheckout)
	}
	if len(req.Lines) > MaxLines {
		return fmt.Errorf("%w: cart has %d lines, at most %d are allowed", ErrInvalidCheckout, len(req.Lines), MaxLines)
	}
	if req.Destination == nil {
		return fmt.Errorf("%w: delivery location is missing", ErrInvalidCheckout)
	}
	if !req.Destination.Valid() {
		return fmt.Errorf("%w: delivery location %+v is out of range", ErrInvalidCheckout, *req.Destination)
	}

	requested := make(map[string]int64)
	stock := make(map[string]int64)
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for product %s must be positive", ErrInvalidCheckout, l.Product.Id)
		}
		if l.Product.Price < 0 {
			return fmt.Errorf("%w: product %s has a negative price", ErrInvalidCheckout, l.Product.Id)
		}
		if l.Product.SellerID == "" {
			return fmt.Errorf("%w: product %s has no seller", ErrInvalidCheckout, l.Product.Id)
		}
		requested[l.Product.Id] += l.Quantity
		stock[l.Product.Id] = l.Product.Stock
	}
	for id, qty := range requested {
		if qty > stock[id] {
			return fmt.Errorf("%w: product %s has %d left, %d requested", storage.ErrInsufficientStock, id, stock[id], qty)
		}
	}
	return nil
}
