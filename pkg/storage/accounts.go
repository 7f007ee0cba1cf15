package storage

import (
	"context"

	"github.com/chris/jastip-settlement/pkg/models"
)

// AccountStore defines the interface for managing wallet accounts.
// Balances are never written through this interface; see LedgerWriter.
type AccountStore interface {
	// CreateAccount stores a new account. It returns ErrAlreadyExists if the id is taken.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetAccount retrieves an account by its id.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// ListAccounts retrieves every account.
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// SetVerified records the platform's verification decision for an account.
	SetVerified(ctx context.Context, accountID string, verified bool) (*models.Account, error)
}
