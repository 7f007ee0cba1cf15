// Package memory is an in-process implementation of storage.Storage.
// It backs local runs and tests; every Store value owns its own data.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

// Store implements the Storage interface in memory.
type Store struct {
	// mu guards the maps below. Row-level exclusion is provided by locks.
	mu       sync.RWMutex
	accounts map[string]models.Account
	products map[string]models.Product
	orders   map[string]models.Order
	entries  map[string][]models.Transaction

	locks keyedMutex
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[string]models.Account),
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		entries:  make(map[string][]models.Transaction),
		locks:    keyedMutex{m: make(map[string]*sync.Mutex)},
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// keyedMutex hands out one mutex per key. Keys passed together are locked in sorted order.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	return l
}

// lock acquires every key in ascending order and returns a function that releases them.
func (k *keyedMutex) lock(keys ...string) func() {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		l := k.get(key)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func accountKey(id string) string { return "account:" + id }
func productKey(id string) string { return "product:" + id }
func orderKey(id string) string   { return "order:" + id }

func accountKeys(entries []models.Transaction) []string {
	ids := ledger.AccountOrder(entries)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = accountKey(id)
	}
	return keys
}

// applyLocked validates and applies entries. The caller must hold mu and the account locks.
func (s *Store) applyLocked(entries []models.Transaction) error {
	deltas := ledger.NetDeltas(entries)
	for _, id := range ledger.AccountOrder(entries) {
		acct, ok := s.accounts[id]
		if !ok {
			return fmt.Errorf("account %s: %w", id, storage.ErrNotFound)
		}
		if acct.Balance+deltas[id] < 0 {
			return fmt.Errorf("account %s has %d, needs %d: %w", id, acct.Balance, -deltas[id], storage.ErrInsufficientFunds)
		}
	}
	for id, delta := range deltas {
		acct := s.accounts[id]
		acct.Balance += delta
		acct.Version++
		s.accounts[id] = acct
	}
	for _, e := range entries {
		s.entries[e.AccountID] = append(s.entries[e.AccountID], e)
	}
	return nil
}

// ApplyEntries writes entries and balance deltas atomically.
func (s *Store) ApplyEntries(ctx context.Context, entries []models.Transaction) error {
	if len(entries) == 0 {
		return nil
	}
	unlock := s.locks.lock(accountKeys(entries)...)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(entries)
}

// ListTransactions returns the account's entries, newest first.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
	}
	out := append([]models.Transaction(nil), s.entries[accountID]...)
	ledger.SortNewestFirst(out)
	return out, nil
}
