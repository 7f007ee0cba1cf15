// Package ledger builds and checks wallet ledger entries.
//
// Balances are never edited directly. Every change is expressed as a set of entries
// that a store applies atomically together with the matching balance deltas.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/chris/jastip-settlement/pkg/models"
)

// ErrInvalidAmount is returned when an amount is zero or negative.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrBalanceMismatch is returned when an account balance differs from the replay of its entries.
var ErrBalanceMismatch = errors.New("balance does not match ledger replay")

// Credit builds a posting that adds amount to the account.
func Credit(accountID string, kind models.TransactionKind, amount int64, description, reference string) (models.Posting, error) {
	if !kind.IsCredit() {
		return models.Posting{}, fmt.Errorf("kind %s is not a credit", kind)
	}
	return newPosting(accountID, kind, amount, description, reference)
}

// Debit builds a posting that removes amount from the account.
func Debit(accountID string, kind models.TransactionKind, amount int64, description, reference string) (models.Posting, error) {
	if kind.IsCredit() || !kind.Valid() {
		return models.Posting{}, fmt.Errorf("kind %s is not a debit", kind)
	}
	return newPosting(accountID, kind, amount, description, reference)
}

// Transfer builds the debit and credit pair that moves amount between two accounts.
func Transfer(from, to string, amount int64, description, reference string) ([]models.Posting, error) {
	if from == to {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidAmount)
	}
	debit, err := Debit(from, models.TRANSFER, amount, description, reference)
	if err != nil {
		return nil, err
	}
	credit, err := Credit(to, models.INCOME, amount, description, reference)
	if err != nil {
		return nil, err
	}
	return []models.Posting{debit, credit}, nil
}

func newPosting(accountID string, kind models.TransactionKind, amount int64, description, reference string) (models.Posting, error) {
	if amount <= 0 {
		return models.Posting{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if accountID == "" {
		return models.Posting{}, errors.New("account id is required")
	}
	return models.Posting{
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Reference:   reference,
	}, nil
}

// Entries turns postings into immutable ledger entries stamped with now.
func Entries(postings []models.Posting, now time.Time, newID func() string) []models.Transaction {
	entries := make([]models.Transaction, 0, len(postings))
	for _, p := range postings {
		entries = append(entries, models.Transaction{
			Id:          newID(),
			AccountID:   p.AccountID,
			Kind:        p.Kind,
			Amount:      p.Amount,
			Description: p.Description,
			Reference:   p.Reference,
			CreatedAt:   now,
		})
	}
	return entries
}

// NetDeltas sums the signed amounts of entries per account.
func NetDeltas(entries []models.Transaction) map[string]int64 {
	deltas := make(map[string]int64, len(entries))
	for _, e := range entries {
		deltas[e.AccountID] += e.Signed()
	}
	return deltas
}

// AccountOrder returns the distinct accounts touched by entries in ascending order.
// Stores acquire account locks in this order.
func AccountOrder(entries []models.Transaction) []string {
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	sort.Strings(ids)
	return ids
}

// Replay returns the balance implied by a full entry history.
func Replay(entries []models.Transaction) int64 {
	var balance int64
	for _, e := range entries {
		balance += e.Signed()
	}
	return balance
}

// Verify checks that the account balance equals the replay of its entries.
func Verify(account *models.Account, entries []models.Transaction) error {
	if replayed := Replay(entries); replayed != account.Balance {
		return fmt.Errorf("%w: account %s has balance %d, ledger replays to %d",
			ErrBalanceMismatch, account.AccountID, account.Balance, replayed)
	}
	return nil
}

// SortNewestFirst orders entries reverse-chronologically. Ties keep a stable id order.
func SortNewestFirst(entries []models.Transaction) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].Id > entries[j].Id
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
