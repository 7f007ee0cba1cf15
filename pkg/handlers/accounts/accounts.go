package accounts

import (
	"net/http"

	"github.com/chris/jastip-settlement/pkg/api"
	"github.com/chris/jastip-settlement/pkg/handlers/respond"
	"github.com/chris/jastip-settlement/pkg/mapping"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/service"
)

// AccountsHandler holds the dependencies for the platform's account administration.
type AccountsHandler struct {
	Service service.AccountService
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(svc service.AccountService) *AccountsHandler {
	return &AccountsHandler{Service: svc}
}

func requirePlatform(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return false
	}
	if actor.Role != models.PLATFORM {
		respond.Error(w, "Only the platform can manage accounts", service.ErrForbidden)
		return false
	}
	return true
}

// CreateAccount handles the logic for opening a new account.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	if !requirePlatform(w, r) {
		return
	}

	var req api.NewAccount
	if !respond.Decode(w, r, &req) {
		return
	}
	verified := req.Verified != nil && *req.Verified

	account, err := h.Service.OpenAccount(r.Context(), req.AccountId, models.Role(req.Role), verified)
	if err != nil {
		respond.Error(w, "Failed to create account", err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiAccount(account))
}

// SetAccountVerification records whether the platform has verified an account.
func (h *AccountsHandler) SetAccountVerification(w http.ResponseWriter, r *http.Request, accountId string) {
	if !requirePlatform(w, r) {
		return
	}

	var req api.Verification
	if !respond.Decode(w, r, &req) {
		return
	}

	account, err := h.Service.SetVerified(r.Context(), accountId, req.Verified)
	if err != nil {
		respond.Error(w, "Failed to update verification", err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}
