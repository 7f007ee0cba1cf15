package postgres

import (
	"context"
	"fmt"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, role, balance, verified, version, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var (
		a    models.Account
		role string
	)
	if err := row.Scan(&a.AccountID, &role, &a.Balance, &a.Verified, &a.Version, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Role = models.Role(role)
	return &a, nil
}

// CreateAccount inserts a new account.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO accounts (account_id, role, balance, verified, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		account.AccountID, string(account.Role), account.Balance, account.Verified, account.Version, account.CreatedAt)
	if err != nil {
		return nil, translate(err, "create account "+account.AccountID)
	}
	return account, nil
}

// GetAccount retrieves an account by its id.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	a, err := scanAccount(s.DB.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID))
	if err != nil {
		return nil, translate(err, "get account "+accountID)
	}
	return a, nil
}

// ListAccounts retrieves every account ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, translate(err, "list accounts")
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list accounts")
	}
	return accounts, nil
}

// SetVerified updates the verification flag of an account.
func (s *Store) SetVerified(ctx context.Context, accountID string, verified bool) (*models.Account, error) {
	a, err := scanAccount(s.DB.QueryRow(ctx,
		`UPDATE accounts SET verified = $2 WHERE account_id = $1 RETURNING `+accountColumns,
		accountID, verified))
	if err != nil {
		return nil, translate(err, "verify account "+accountID)
	}
	return a, nil
}
