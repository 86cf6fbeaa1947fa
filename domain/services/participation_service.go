package services

import (
	"context"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/interfaces"
	"pickem/domain/utils"

	log "github.com/sirupsen/logrus"
)

// participationService implements the contest join transaction
type participationService struct {
	contestRepo       interfaces.ContestRepository
	participationRepo interfaces.ParticipationRepository
	accountRepo       interfaces.AccountRepository
	ledgerService     interfaces.LedgerService
	eventPublisher    interfaces.EventPublisher
}

// NewParticipationService creates a new participation service
func NewParticipationService(
	contestRepo interfaces.ContestRepository,
	participationRepo interfaces.ParticipationRepository,
	accountRepo interfaces.AccountRepository,
	ledgerService interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.ParticipationService {
	return &participationService{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
		accountRepo:       accountRepo,
		ledgerService:     ledgerService,
		eventPublisher:    eventPublisher,
	}
}

// Join charges the entry fee once, escrows it into the pot and registers the picks.
// Rejoining a contest the account already paid for only replaces the picks.
func (s *participationService) Join(ctx context.Context, contestID int64, accountID string, picks []string) (*interfaces.JoinResult, error) {
	if err := entities.ValidatePicks(picks); err != nil {
		return nil, err
	}

	contest, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	if contest == nil {
		return nil, entities.ErrContestNotFound
	}
	if !contest.IsOpen() {
		return nil, entities.ErrContestNotOpen
	}

	// Lock the account first so joins by the same account serialize
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	existing, err := s.participationRepo.GetForUpdate(ctx, contestID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}
	if existing != nil && existing.Paid {
		if err := s.participationRepo.UpdatePicks(ctx, existing.ID, picks); err != nil {
			return nil, fmt.Errorf("failed to update picks: %w", err)
		}
		return &interfaces.JoinResult{
			ContestID: contestID,
			Pot:       contest.Pot,
			Balance:   account.Balance,
			Charged:   false,
		}, nil
	}

	if !account.CanAfford(contest.EntryCost) {
		return nil, entities.ErrInsufficientFunds
	}

	balance := account.Balance
	if contest.EntryCost > 0 {
		result, err := s.ledgerService.Debit(ctx, accountID, contest.EntryCost, utils.EntryKey(contestID, accountID),
			entities.LedgerSourceContestEntry, map[string]any{"contest_id": contestID})
		if err != nil {
			return nil, fmt.Errorf("failed to debit entry fee: %w", err)
		}
		if !result.Applied {
			log.WithFields(log.Fields{
				"contestID": contestID,
				"accountID": accountID,
			}).Warn("Entry fee key already applied for unpaid participation")
		}
		balance = result.ToBalance
	}

	if _, err := s.participationRepo.UpsertPaid(ctx, contestID, accountID, picks); err != nil {
		return nil, fmt.Errorf("failed to save participation: %w", err)
	}

	newPot, updated, err := s.contestRepo.IncrementPotAndCount(ctx, contestID, contest.EntryCost)
	if err != nil {
		return nil, fmt.Errorf("failed to increment pot: %w", err)
	}
	if !updated {
		// Status moved on after the first read; the caller rolls the debit back
		return nil, entities.ErrContestNotOpen
	}

	if err := s.accountRepo.IncrementParticipations(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to update participation stats: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ContestJoinedEvent{
		ContestID: contestID,
		AccountID: accountID,
		EntryCost: contest.EntryCost,
		Pot:       newPot,
	}); err != nil {
		log.WithError(err).Error("Failed to publish contest joined event")
	}

	return &interfaces.JoinResult{
		ContestID: contestID,
		Pot:       newPot,
		Balance:   balance,
		Charged:   true,
	}, nil
}
