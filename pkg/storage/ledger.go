package storage

import (
	"context"

	"github.com/chris/jastip-settlement/pkg/models"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListTransactions retrieves every entry of an account, newest first.
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// LedgerWriter applies ledger entries together with the balance changes they imply.
type LedgerWriter interface {
	// ApplyEntries writes all entries and adjusts the balances of the accounts they touch
	// as a single atomic unit. It returns ErrInsufficientFunds if any account would go negative
	// and ErrNotFound if an account does not exist. On error nothing is written.
	ApplyEntries(ctx context.Context, entries []models.Transaction) error
}
