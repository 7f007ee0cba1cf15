package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chris/jastip-settlement/pkg/events"
	"github.com/chris/jastip-settlement/pkg/ledger"
	"github.com/chris/jastip-settlement/pkg/models"
)

// GetBalance returns the account's current balance.
func (s *Service) GetBalance(ctx context.Context, accountID string) (int64, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// GetTransactions returns the account's ledger, newest first.
func (s *Service) GetTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, accountID)
}

// Withdraw records a WITHDRAW debit and notifies the operator to pay the amount out.
func (s *Service) Withdraw(ctx context.Context, accountID string, amount int64) (*models.Transaction, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if amount < s.schedule.MinWithdrawal {
		return nil, fmt.Errorf("%w: withdrawals start at %d, got %d", ErrBelowMinimum, s.schedule.MinWithdrawal, amount)
	}
	if !acct.Verified {
		return nil, fmt.Errorf("%w: account %s", ErrUnverified, accountID)
	}

	posting, err := ledger.Debit(accountID, models.WITHDRAW, amount, "Withdrawal request", "")
	if err != nil {
		return nil, err
	}
	tx, err := s.applyOne(ctx, posting)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "withdrawal requested",
		slog.String("account_id", accountID),
		slog.Int64("amount", amount),
		slog.String("transaction_id", tx.Id),
	)
	s.publish(ctx, events.WithdrawalRequested, accountID, events.WithdrawalRequestedPayload{
		AccountID:     accountID,
		TransactionID: tx.Id,
		Amount:        amount,
	})
	return tx, nil
}

// TopUp records a TOPUP credit confirmed by the platform operator.
func (s *Service) TopUp(ctx context.Context, accountID string, amount int64) (*models.Transaction, error) {
	if amount < s.schedule.MinTopUp {
		return nil, fmt.Errorf("%w: top-ups start at %d, got %d", ErrBelowMinimum, s.schedule.MinTopUp, amount)
	}
	posting, err := ledger.Credit(accountID, models.TOPUP, amount, "Top up", "")
	if err != nil {
		return nil, err
	}
	return s.applyOne(ctx, posting)
}

// Transfer moves amount from one wallet to another as a single atomic unit.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount int64) ([]models.Transaction, error) {
	if _, err := s.store.GetAccount(ctx, toID); err != nil {
		return nil, fmt.Errorf("failed to get recipient account: %w", err)
	}

	postings, err := ledger.Transfer(fromID, toID, amount, fmt.Sprintf("Transfer to %s", toID), "")
	if err != nil {
		return nil, err
	}
	postings[1].Description = fmt.Sprintf("Transfer from %s", fromID)

	entries := ledger.Entries(postings, s.now(), s.newID)
	if err := s.store.ApplyEntries(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) applyOne(ctx context.Context, posting models.Posting) (*models.Transaction, error) {
	entries := ledger.Entries([]models.Posting{posting}, s.now(), s.newID)
	if err := s.store.ApplyEntries(ctx, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}
