package models

import (
	"math"
	"time"
)

// OrderStatus defines the possible states of an order.
type OrderStatus string

const (
	PENDING                OrderStatus = "PENDING"
	CONFIRMED              OrderStatus = "CONFIRMED"
	DRIVER_EN_ROUTE_PICKUP OrderStatus = "DRIVER_EN_ROUTE_PICKUP"
	IN_TRANSIT             OrderStatus = "IN_TRANSIT"
	COMPLETED              OrderStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case PENDING, CONFIRMED, DRIVER_EN_ROUTE_PICKUP, IN_TRANSIT, COMPLETED:
		return true
	}
	return false
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" dynamodbav:"lat"`
	Lon float64 `json:"lon" dynamodbav:"lon"`
}

// Valid reports whether the coordinate lies within the latitude and longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Product is the catalog's read-only view of an item at checkout time.
type Product struct {
	Id       string      `json:"id" dynamodbav:"id"`
	SellerID string      `json:"seller_id" dynamodbav:"seller_id"`
	Name     string      `json:"name" dynamodbav:"name"`
	Price    int64       `json:"price" dynamodbav:"price"`
	Stock    int64       `json:"stock" dynamodbav:"stock"`
	Origin   *Coordinate `json:"origin,omitempty" dynamodbav:"origin,omitempty"`
}

// CartLine is one requested product and quantity from a buyer's cart.
type CartLine struct {
	ProductID string
	Quantity  int64
}

// StockDecrement asks the catalog to take quantity units out of a product's stock.
type StockDecrement struct {
	ProductID string
	Quantity  int64
}

// Order represents the internal domain model for a single (seller, product) line of a checkout.
type Order struct {
	Id                  string      `json:"id" dynamodbav:"id"`
	CheckoutID          string      `json:"checkout_id" dynamodbav:"checkout_id"`
	BuyerID             string      `json:"buyer_id" dynamodbav:"buyer_id"`
	SellerID            string      `json:"seller_id" dynamodbav:"seller_id"`
	DriverID            string      `json:"driver_id,omitempty" dynamodbav:"driver_id,omitempty"`
	DriverName          string      `json:"driver_name,omitempty" dynamodbav:"driver_name,omitempty"`
	ProductID           string      `json:"product_id" dynamodbav:"product_id"`
	ProductName         string      `json:"product_name" dynamodbav:"product_name"`
	Quantity            int64       `json:"quantity" dynamodbav:"quantity"`
	UnitPrice           int64       `json:"unit_price" dynamodbav:"unit_price"`
	DistanceKm          float64     `json:"distance_km" dynamodbav:"distance_km"`
	ShippingFee         int64       `json:"shipping_fee" dynamodbav:"shipping_fee"`
	BuyerServiceFee     int64       `json:"buyer_service_fee" dynamodbav:"buyer_service_fee"`
	TotalChargedToBuyer int64       `json:"total_charged_to_buyer" dynamodbav:"total_charged_to_buyer"`
	Status              OrderStatus `json:"status" dynamodbav:"status"`
	DeliveryAddress     string      `json:"delivery_address" dynamodbav:"delivery_address"`
	Destination         Coordinate  `json:"destination" dynamodbav:"destination"`
	Settled             bool        `json:"-" dynamodbav:"settled"`
	Version             int64       `json:"-" dynamodbav:"version"`
	CreatedAt           time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" dynamodbav:"updated_at"`
	CompletedAt         *time.Time  `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty"`
}

// Subtotal is the item value of the order without any fees.
func (o *Order) Subtotal() int64 {
	return o.UnitPrice * o.Quantity
}

// HasDriver reports whether a driver has been assigned.
func (o *Order) HasDriver() bool {
	return o.DriverID != ""
}

// OrderFilter narrows an order listing. Empty fields do not filter.
type OrderFilter struct {
	BuyerID    string
	SellerID   string
	DriverID   string
	Status     OrderStatus
	Unassigned bool
}

// Matches reports whether an order satisfies every set field of the filter.
func (f OrderFilter) Matches(o *Order) bool {
	if f.BuyerID != "" && o.BuyerID != f.BuyerID {
		return false
	}
	if f.SellerID != "" && o.SellerID != f.SellerID {
		return false
	}
	if f.DriverID != "" && o.DriverID != f.DriverID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Unassigned && o.DriverID != "" {
		return false
	}
	return true
}

// Checkout is everything a single checkout writes in one atomic unit.
type Checkout struct {
	ID         string
	BuyerID    string
	Orders     []Order
	Decrements []StockDecrement
	Entries    []Transaction
}
