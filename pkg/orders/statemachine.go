// Package orders holds the order lifecycle: which status changes exist and who may perform them.
package orders

import (
	"errors"
	"fmt"

	"github.com/chris/jastip-settlement/pkg/models"
)

// ErrInvalidTransition is returned when a status change is not allowed from the current state or for the actor.
var ErrInvalidTransition = errors.New("invalid order transition")

// Edge is a directed status change.
type Edge struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// transitions lists every legal edge and the roles allowed to trigger it.
var transitions = map[Edge][]models.Role{
	{models.PENDING, models.CONFIRMED}:                 {models.SELLER},
	{models.CONFIRMED, models.DRIVER_EN_ROUTE_PICKUP}:  {models.DRIVER},
	{models.DRIVER_EN_ROUTE_PICKUP, models.IN_TRANSIT}: {models.SELLER},
	{models.IN_TRANSIT, models.COMPLETED}:              {models.BUYER, models.DRIVER},
}

// Allowed reports whether role may move an order along the edge from -> to.
func Allowed(from, to models.OrderStatus, role models.Role) bool {
	for _, r := range transitions[Edge{from, to}] {
		if r == role {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no edge leaves the status.
func IsTerminal(s models.OrderStatus) bool {
	for e := range transitions {
		if e.From == s {
			return false
		}
	}
	return true
}

// Authorize validates that actor may move order to target. It never mutates the order.
func Authorize(order *models.Order, target models.OrderStatus, actor models.Actor) error {
	if !Allowed(order.Status, target, actor.Role) {
		return fmt.Errorf("%w: %s cannot move order %s from %s to %s",
			ErrInvalidTransition, actor.Role, order.Id, order.Status, target)
	}

	switch actor.Role {
	case models.SELLER:
		if actor.ID != order.SellerID {
			return fmt.Errorf("%w: order %s belongs to another seller", ErrInvalidTransition, order.Id)
		}
	case models.BUYER:
		if actor.ID != order.BuyerID {
			return fmt.Errorf("%w: order %s belongs to another buyer", ErrInvalidTransition, order.Id)
		}
	case models.DRIVER:
		if target != models.DRIVER_EN_ROUTE_PICKUP && actor.ID != order.DriverID {
			return fmt.Errorf("%w: order %s is assigned to another driver", ErrInvalidTransition, order.Id)
		}
	}

	switch target {
	case models.DRIVER_EN_ROUTE_PICKUP:
		if order.HasDriver() {
			return fmt.Errorf("%w: order %s already has a driver", ErrInvalidTransition, order.Id)
		}
	case models.IN_TRANSIT:
		if !order.HasDriver() {
			return fmt.Errorf("%w: order %s has no driver", ErrInvalidTransition, order.Id)
		}
	case models.COMPLETED:
		if order.Settled {
			return fmt.Errorf("%w: order %s is already settled", ErrInvalidTransition, order.Id)
		}
	}
	return nil
}
