// Package reconciliation replays every account's ledger and reports balances that disagree with it.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/jastip-settlement/pkg/events"
	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
)

const producer = "jastip-reconciliation"

// maxRechecks bounds how often a suspect account is re-read while writes keep landing on it.
const maxRechecks = 5

// Store is the read-only view the reconciler needs.
type Store interface {
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	storage.LedgerReader
}

// Mismatch is an account whose stored balance differs from its ledger replay.
type Mismatch struct {
	AccountID string
	Balance   int64
	Replayed  int64
}

// Report summarizes one reconciliation run. Busy lists accounts that were written to on every
// recheck, so no stable snapshot of them could be taken.
type Report struct {
	Checked    int
	Mismatches []Mismatch
	Busy       []string
}

// Run checks every account. Mismatches are logged and published as ledger.balance_mismatch events;
// they are not errors. An error is returned only if the store could not be read.
func Run(ctx context.Context, store Store, publisher events.Publisher, logger *slog.Logger) (*Report, error) {
	if publisher == nil {
		publisher = &events.NoOpPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	report := &Report{}
	for i := range accounts {
		account := &accounts[i]
		entries, err := store.ListTransactions(ctx, account.AccountID)
		if err != nil {
			return report, fmt.Errorf("failed to list transactions for %s: %w", account.AccountID, err)
		}
		report.Checked++

		if err := ledger.Verify(account, entries); err == nil {
			continue
		} else if !errors.Is(err, ledger.ErrBalanceMismatch) {
			return report, err
		}

		// The balance was listed before the entries were read, so a commit in between looks
		// like drift. Only a snapshot taken while the account version holds still counts.
		m, stable, err := recheck(ctx, store, account.AccountID)
		if err != nil {
			return report, err
		}
		if !stable {
			report.Busy = append(report.Busy, account.AccountID)
			logger.WarnContext(ctx, "account kept changing during reconciliation",
				slog.String("account_id", account.AccountID),
				slog.Int("attempts", maxRechecks),
			)
			continue
		}
		if m == nil {
			continue
		}
		report.Mismatches = append(report.Mismatches, *m)
		logger.ErrorContext(ctx, "ledger balance mismatch",
			slog.String("account_id", m.AccountID),
			slog.Int64("balance", m.Balance),
			slog.Int64("replayed", m.Replayed),
		)
		publishMismatch(ctx, publisher, logger, *m)
	}

	logger.InfoContext(ctx, "reconciliation finished",
		slog.Int("checked", report.Checked),
		slog.Int("mismatches", len(report.Mismatches)),
		slog.Int("busy", len(report.Busy)),
	)
	return report, nil
}

// recheck reads the account, its entries and the account again until the version is the same
// on both sides of the entry read. It returns the mismatch seen in that snapshot, or nil if the
// snapshot agrees. stable is false when no such snapshot was taken within maxRechecks attempts.
func recheck(ctx context.Context, store Store, accountID string) (m *Mismatch, stable bool, err error) {
	for range maxRechecks {
		before, err := store.GetAccount(ctx, accountID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to re-read account %s: %w", accountID, err)
		}
		entries, err := store.ListTransactions(ctx, accountID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to list transactions for %s: %w", accountID, err)
		}
		after, err := store.GetAccount(ctx, accountID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to re-read account %s: %w", accountID, err)
		}
		if before.Version != after.Version {
			continue
		}

		if err := ledger.Verify(after, entries); err != nil {
			if !errors.Is(err, ledger.ErrBalanceMismatch) {
				return nil, false, err
			}
			return &Mismatch{AccountID: accountID, Balance: after.Balance, Replayed: ledger.Replay(entries)}, true, nil
		}
		return nil, true, nil
	}
	return nil, false, nil
}

func publishMismatch(ctx context.Context, publisher events.Publisher, logger *slog.Logger, m Mismatch) {
	env, err := events.NewEnvelope(events.BalanceMismatch, producer, m.AccountID, events.BalanceMismatchPayload{
		AccountID: m.AccountID,
		Balance:   m.Balance,
		Replayed:  m.Replayed,
	})
	if err == nil {
		err = publisher.Publish(ctx, env)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to publish event",
			slog.String("event_type", events.BalanceMismatch),
			slog.String("account_id", m.AccountID),
			slog.Any("error", err),
		)
	}
}
