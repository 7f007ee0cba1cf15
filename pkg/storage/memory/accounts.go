package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// CreateAccount stores a new account.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; ok {
		return nil, fmt.Errorf("account %s: %w", account.AccountID, storage.ErrAlreadyExists)
	}
	s.accounts[account.AccountID] = *account
	out := *account
	return &out, nil
}

// GetAccount retrieves an account by id.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
	}
	return &acct, nil
}

// ListAccounts returns every account ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

// SetVerified updates an account's verification flag.
func (s *Store) SetVerified(ctx context.Context, accountID string, verified bool) (*models.Account, error) {
	unlock := s.locks.lock(accountKey(accountID))
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
	}
	acct.Verified = verified
	acct.Version++
	s.accounts[accountID] = acct
	return &acct, nil
}
