package postgres

import (
	"context"
	"fmt"

	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/jackc/pgx/v5"
)

// ApplyEntries writes the entries and their balance deltas in one transaction.
func (s *Store) ApplyEntries(ctx context.Context, entries []models.Transaction) error {
	if len(entries) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return applyEntries(ctx, tx, entries)
	})
}

// applyEntries locks the touched accounts in id order, checks that no balance goes
// negative and then writes the deltas and entries in a single batch.
func applyEntries(ctx context.Context, tx pgx.Tx, entries []models.Transaction) error {
	if len(entries) == 0 {
		return nil
	}
	ids := ledger.AccountOrder(entries)
	deltas := ledger.NetDeltas(entries)

	rows, err := tx.Query(ctx,
		`SELECT account_id, balance FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE`, ids)
	if err != nil {
		return translate(err, "lock accounts")
	}
	balances := make(map[string]int64, len(ids))
	for rows.Next() {
		var (
			id      string
			balance int64
		)
		if err := rows.Scan(&id, &balance); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan account balance: %w", err)
		}
		balances[id] = balance
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return translate(err, "lock accounts")
	}

	for _, id := range ids {
		balance, ok := balances[id]
		if !ok {
			return fmt.Errorf("account %s: %w", id, storage.ErrNotFound)
		}
		if balance+deltas[id] < 0 {
			return fmt.Errorf("account %s has %d, needs %d: %w", id, balance, -deltas[id], storage.ErrInsufficientFunds)
		}
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`UPDATE accounts SET balance = balance + $2, version = version + 1 WHERE account_id = $1`, id, deltas[id])
	}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO ledger_entries (id, account_id, kind, amount, description, reference, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.Id, e.AccountID, string(e.Kind), e.Amount, e.Description, e.Reference, e.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translate(err, "write ledger entries")
	}
	return nil
}

// ListTransactions retrieves every ledger entry of an account, newest first.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, `
		SELECT id, account_id, kind, amount, description, reference, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`, accountID)
	if err != nil {
		return nil, translate(err, "list ledger entries")
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			t    models.Transaction
			kind string
		)
		if err := rows.Scan(&t.Id, &t.AccountID, &kind, &t.Amount, &t.Description, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		t.Kind = models.TransactionKind(kind)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list ledger entries")
	}
	return txs, nil
}
