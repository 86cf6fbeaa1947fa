package services

import (
	"context"
	"errors"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
)

type accountService struct {
	accountRepo interfaces.AccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo interfaces.AccountRepository) interfaces.AccountService {
	return &accountService{accountRepo: accountRepo}
}

// Register creates the account at a zero balance; registering twice returns the existing account
func (s *accountService) Register(ctx context.Context, accountID, displayName string) (*entities.Account, error) {
	if accountID == "" {
		return nil, errors.New("account id is required")
	}
	account, err := s.accountRepo.Create(ctx, accountID, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// GetAccount returns an account or ErrAccountNotFound
func (s *accountService) GetAccount(ctx context.Context, accountID string) (*entities.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	return account, nil
}
