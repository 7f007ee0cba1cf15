package mapping

import (
	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/models"
)

// ToApiOrder converts a domain Order model to an API Order model.
func ToApiOrder(o *models.Order) *api.Order {
	out := &api.Order{
		Id:                  o.Id,
		CheckoutId:          o.CheckoutID,
		BuyerId:             o.BuyerID,
		SellerId:            o.SellerID,
		ProductId:           o.ProductID,
		ProductName:         o.ProductName,
		Quantity:            o.Quantity,
		UnitPrice:           o.UnitPrice,
		DistanceKm:          o.DistanceKm,
		ShippingFee:         o.ShippingFee,
		BuyerServiceFee:     o.BuyerServiceFee,
		TotalChargedToBuyer: o.TotalChargedToBuyer,
		Status:              api.OrderStatus(o.Status),
		DeliveryAddress:     o.DeliveryAddress,
		Destination:         api.Coordinate{Lat: o.Destination.Lat, Lon: o.Destination.Lon},
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		CompletedAt:         o.CompletedAt,
	}
	if o.DriverID != "" {
		out.DriverId = &o.DriverID
	}
	if o.DriverName != "" {
		out.DriverName = &o.DriverName
	}
	return out
}

// ToApiOrders converts a slice of domain orders, keeping their order.
func ToApiOrders(orders []models.Order) []api.Order {
	out := make([]api.Order, len(orders))
	for i := range orders {
		out[i] = *ToApiOrder(&orders[i])
	}
	return out
}

// ToApiCheckout builds the checkout response and the total charged to the buyer.
func ToApiCheckout(orders []models.Order) *api.CheckoutResponse {
	resp := &api.CheckoutResponse{Orders: ToApiOrders(orders)}
	for _, o := range orders {
		resp.TotalCharged += o.TotalChargedToBuyer
	}
	return resp
}

// ToDomainCartLines converts the API checkout lines to domain cart lines.
func ToDomainCartLines(lines []api.CheckoutLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	for i, l := range lines {
		out[i] = models.CartLine{ProductID: l.ProductId, Quantity: l.Quantity}
	}
	return out
}

// ToDomainCoordinate converts an optional API coordinate.
func ToDomainCoordinate(c *api.Coordinate) *models.Coordinate {
	if c == nil {
		return nil
	}
	return &models.Coordinate{Lat: c.Lat, Lon: c.Lon}
}

// ToDomainOrderFilter converts the list query parameters to an order filter.
func ToDomainOrderFilter(params api.ListOrdersParams) models.OrderFilter {
	var f models.OrderFilter
	if params.BuyerId != nil {
		f.BuyerID = *params.BuyerId
	}
	if params.SellerId != nil {
		f.SellerID = *params.SellerId
	}
	if params.DriverId != nil {
		f.DriverID = *params.DriverId
	}
	if params.Status != nil {
		f.Status = models.OrderStatus(*params.Status)
	}
	if params.Unassigned != nil {
		f.Unassigned = *params.Unassigned
	}
	return f
}

// ToApiAccount converts a domain Account model to an API Account model.
func ToApiAccount(a *models.Account) *api.Account {
	return &api.Account{
		AccountId: a.AccountID,
		Role:      api.Role(a.Role),
		Balance:   a.Balance,
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
	}
}

// ToApiTransaction converts a domain ledger entry to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	out := &api.Transaction{
		Id:          tx.Id,
		AccountId:   tx.AccountID,
		Kind:        api.TransactionKind(tx.Kind),
		Amount:      tx.Amount,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.Reference != "" {
		out.Reference = &tx.Reference
	}
	return out
}

// ToApiTransactions converts a slice of ledger entries, keeping their order.
func ToApiTransactions(txs []models.Transaction) []api.Transaction {
	out := make([]api.Transaction, len(txs))
	for i := range txs {
		out[i] = *ToApiTransaction(&txs[i])
	}
	return out
}
