package orders

import (
	"fmt"
	"net/http"

	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/handlers/respond"
	"github.com/chris/jastip-settlement/pkg/mapping"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/service"
)

// OrdersHandler holds the dependencies for checkout and order handlers.
type OrdersHandler struct {
	Service service.OrderService
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{Service: svc}
}

// Checkout turns the authenticated buyer's cart into orders and charges the buyer.
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	if actor.Role != models.BUYER {
		respond.Error(w, "Only buyers can check out", service.ErrForbidden)
		return
	}

	var req api.CheckoutRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	orders, err := h.Service.BuildOrders(r.Context(), actor.ID,
		mapping.ToDomainCartLines(req.Lines), mapping.ToDomainCoordinate(req.Destination), req.DeliveryAddress)
	if err != nil {
		respond.Error(w, "Failed to check out", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiCheckout(orders))
}

// ListOrders handles the logic for listing orders, newest first.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request, params api.ListOrdersParams) {
	if _, ok := respond.Actor(w, r); !ok {
		return
	}
	if params.Status != nil && !models.OrderStatus(*params.Status).Valid() {
		http.Error(w, fmt.Sprintf("Invalid status %q", *params.Status), http.StatusBadRequest)
		return
	}

	orders, err := h.Service.ListOrders(r.Context(), mapping.ToDomainOrderFilter(params))
	if err != nil {
		respond.Error(w, "Failed to list orders", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiOrders(orders))
}

// GetOrder handles the logic for retrieving an order by its ID.
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request, orderId string) {
	if _, ok := respond.Actor(w, r); !ok {
		return
	}

	order, err := h.Service.GetOrder(r.Context(), orderId)
	if err != nil {
		respond.Error(w, "Failed to retrieve order", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiOrder(order))
}

// TransitionOrder moves an order to the requested status on behalf of the authenticated actor.
func (h *OrdersHandler) TransitionOrder(w http.ResponseWriter, r *http.Request, orderId string) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req api.TransitionRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	target := models.OrderStatus(req.TargetStatus)
	if !target.Valid() {
		http.Error(w, fmt.Sprintf("Invalid target status %q", req.TargetStatus), http.StatusBadRequest)
		return
	}

	order, err := h.Service.Transition(r.Context(), orderId, target, actor)
	if err != nil {
		respond.Error(w, "Failed to update order", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiOrder(order))
}
