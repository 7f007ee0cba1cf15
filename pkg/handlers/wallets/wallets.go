package wallets

import (
	"net/http"

	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/handlers/respond"
	"github.com/chris/jastip-settlement/pkg/mapping"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/service"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Service service.WalletService
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(svc service.WalletService) *WalletsHandler {
	return &WalletsHandler{Service: svc}
}

// GetAccountBalance returns the balance of an account to its owner or the platform.
func (h *WalletsHandler) GetAccountBalance(w http.ResponseWriter, r *http.Request, accountId string) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	if !respond.OwnerOrPlatform(actor, accountId) {
		respond.Error(w, "Cannot read this account", service.ErrForbidden)
		return
	}

	balance, err := h.Service.GetBalance(r.Context(), accountId)
	if err != nil {
		respond.Error(w, "Failed to retrieve balance", err)
		return
	}

	respond.JSON(w, http.StatusOK, api.Balance{AccountId: accountId, Balance: balance})
}

// ListAccountTransactions returns the ledger of an account, newest first.
func (h *WalletsHandler) ListAccountTransactions(w http.ResponseWriter, r *http.Request, accountId string) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	if !respond.OwnerOrPlatform(actor, accountId) {
		respond.Error(w, "Cannot read this account", service.ErrForbidden)
		return
	}

	txs, err := h.Service.GetTransactions(r.Context(), accountId)
	if err != nil {
		respond.Error(w, "Failed to retrieve transactions", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransactions(txs))
}

// CreateWithdrawal withdraws funds from the caller's own account.
func (h *WalletsHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request, accountId string) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	if actor.ID != accountId {
		respond.Error(w, "Cannot withdraw from another account", service.ErrForbidden)
		return
	}

	var req api.AmountRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tx, err := h.Service.Withdraw(r.Context(), accountId, req.Amount)
	if err != nil {
		respond.Error(w, "Failed to withdraw", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// CreateTransfer moves funds from the caller's own account to another account.
func (h *WalletsHandler) CreateTransfer(w http.ResponseWriter, r *http.Request, accountId string) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	if actor.ID != accountId {
		respond.Error(w, "Cannot transfer from another account", service.ErrForbidden)
		return
	}

	var req api.TransferRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	txs, err := h.Service.Transfer(r.Context(), accountId, req.ToAccountId, req.Amount)
	if err != nil {
		respond.Error(w, "Failed to transfer", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiTransactions(txs))
}

// CreateTopUp credits an account. Only the platform records top-ups.
func (h *WalletsHandler) CreateTopUp(w http.ResponseWriter, r *http.Request, accountId string) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	if actor.Role != models.PLATFORM {
		respond.Error(w, "Only the platform can top up accounts", service.ErrForbidden)
		return
	}

	var req api.AmountRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tx, err := h.Service.TopUp(r.Context(), accountId, req.Amount)
	if err != nil {
		respond.Error(w, "Failed to top up", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}
