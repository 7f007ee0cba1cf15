package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/jastip-settlement/pkg/models"
)

// OpenAccount creates an empty account for a registered user.
func (s *Service) OpenAccount(ctx context.Context, accountID string, role models.Role, verified bool) (*models.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidRequest)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
	}
	return s.store.CreateAccount(ctx, &models.Account{
		AccountID: accountID,
		Role:      role,
		Verified:  verified,
		Version:   1,
		CreatedAt: s.now(),
	})
}

// GetAccount returns an account by id.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

// SetVerified records whether the platform has verified the account.
func (s *Service) SetVerified(ctx context.Context, accountID string, verified bool) (*models.Account, error) {
	return s.store.SetVerified(ctx, accountID, verified)
}

// EnsurePlatformAccount creates the platform revenue account if it does not exist yet.
func (s *Service) EnsurePlatformAccount(ctx context.Context) error {
	_, err := s.OpenAccount(ctx, s.platformAccountID, models.PLATFORM, true)
	if err != nil && !errors.Is(err, ErrAlreadyExists) {
		return fmt.Errorf("failed to create platform account: %w", err)
	}
	return nil
}
