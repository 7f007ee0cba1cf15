package handlers

import (
	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/handlers/accounts"
	"github.com/chris/jastip-settlement/pkg/handlers/orders"
	"github.com/chris/jastip-settlement/pkg/handlers/wallets"
	"github.com/chris/jastip-settlement/pkg/service"
)

// ApiHandler implements the generated server interface.
// It composes the order, wallet and account handlers over one marketplace service.
type ApiHandler struct {
	*orders.OrdersHandler
	*wallets.WalletsHandler
	*accounts.AccountsHandler
}

// NewApiHandler creates a new ApiHandler backed by svc.
func NewApiHandler(svc service.Marketplace) *ApiHandler {
	return &ApiHandler{
		OrdersHandler:   orders.NewOrdersHandler(svc),
		WalletsHandler:  wallets.NewWalletsHandler(svc),
		AccountsHandler: accounts.NewAccountsHandler(svc),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
