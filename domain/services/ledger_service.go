package services

import (
	"context"
	"errors"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ledgerService implements the keyed credit grant/debit primitive
type ledgerService struct {
	accountRepo    interfaces.AccountRepository
	ledgerRepo     interfaces.LedgerEntryRepository
	eventPublisher interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	accountRepo interfaces.AccountRepository,
	ledgerRepo interfaces.LedgerEntryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:    accountRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

// Grant credits amount to an account unless the key was already used
func (s *ledgerService) Grant(ctx context.Context, accountID string, amount int64, key string, source entities.LedgerSource, meta map[string]any) (*entities.GrantResult, error) {
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	return s.apply(ctx, accountID, amount, key, source, meta)
}

// Debit removes amount from an account unless the key was already used
func (s *ledgerService) Debit(ctx context.Context, accountID string, amount int64, key string, source entities.LedgerSource, meta map[string]any) (*entities.GrantResult, error) {
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	return s.apply(ctx, accountID, -amount, key, source, meta)
}

// apply writes one entry and the matching balance in the caller's transaction.
// This is the single entry point for all balance changes.
func (s *ledgerService) apply(ctx context.Context, accountID string, amount int64, key string, source entities.LedgerSource, meta map[string]any) (*entities.GrantResult, error) {
	if key == "" {
		return nil, errors.New("idempotency key is required")
	}
	if !source.IsValid() {
		return nil, entities.ErrInvalidSource
	}

	existing, err := s.ledgerRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	if existing != nil {
		log.WithFields(log.Fields{
			"key":       key,
			"accountID": accountID,
		}).Debug("Ledger key already applied, skipping")
		return &entities.GrantResult{
			Applied:     false,
			FromBalance: existing.FromBalance,
			ToBalance:   existing.ToBalance,
			Entry:       existing,
		}, nil
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	newBalance := account.CalculateNewBalance(amount)
	if newBalance < 0 {
		return nil, entities.ErrInsufficientFunds
	}

	if meta == nil {
		meta = map[string]any{}
	}
	entry := &entities.LedgerEntry{
		AccountID:      accountID,
		IdempotencyKey: key,
		Amount:         amount,
		Source:         source,
		FromBalance:    account.Balance,
		ToBalance:      newBalance,
		Metadata:       meta,
	}

	inserted, err := s.ledgerRepo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}
	if !inserted {
		// A concurrent writer committed the same key first
		return &entities.GrantResult{Applied: false, FromBalance: account.Balance, ToBalance: account.Balance}, nil
	}

	if err := s.accountRepo.UpdateBalance(ctx, accountID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	event := events.BalanceChangeEvent{
		AccountID:      accountID,
		IdempotencyKey: key,
		OldBalance:     account.Balance,
		NewBalance:     newBalance,
		ChangeAmount:   amount,
		Source:         source,
	}
	log.WithFields(log.Fields{
		"accountID":  accountID,
		"key":        key,
		"source":     source,
		"amount":     amount,
		"oldBalance": account.Balance,
		"newBalance": newBalance,
	}).Debug("Publishing BalanceChangeEvent")
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return &entities.GrantResult{
		Applied:     true,
		FromBalance: account.Balance,
		ToBalance:   newBalance,
		Entry:       entry,
	}, nil
}

// History returns recent ledger entries for an account
func (s *ledgerService) History(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.ledgerRepo.GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}
	return entries, nil
}

// Reconcile compares the stored balance with the sum of the account's entries
func (s *ledgerService) Reconcile(ctx context.Context, accountID string) (*interfaces.BalanceReconciliation, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	sum, err := s.ledgerRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return &interfaces.BalanceReconciliation{
		AccountID:    accountID,
		Balance:      account.Balance,
		LedgerSum:    sum,
		IsConsistent: account.Balance == sum,
	}, nil
}
