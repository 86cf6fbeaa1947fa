package services

import (
	"context"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/interfaces"
	"pickem/domain/utils"

	log "github.com/sirupsen/logrus"
)

// settlementService implements the terminal contest transition
type settlementService struct {
	contestRepo        interfaces.ContestRepository
	participationRepo  interfaces.ParticipationRepository
	ledgerService      interfaces.LedgerService
	leaderboardService interfaces.LeaderboardService
	eventPublisher     interfaces.EventPublisher
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	contestRepo interfaces.ContestRepository,
	participationRepo interfaces.ParticipationRepository,
	ledgerService interfaces.LedgerService,
	leaderboardService interfaces.LeaderboardService,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	return &settlementService{
		contestRepo:        contestRepo,
		participationRepo:  participationRepo,
		ledgerService:      ledgerService,
		leaderboardService: leaderboardService,
		eventPublisher:     eventPublisher,
	}
}

// Settle freezes scores, splits the pot among the top scorers and pays them.
// A contest that is already terminal is left untouched.
func (s *settlementService) Settle(ctx context.Context, contestID int64) (*interfaces.SettlementResult, error) {
	contest, err := s.contestRepo.GetByIDForUpdate(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest for update: %w", err)
	}
	if contest == nil {
		return nil, entities.ErrContestNotFound
	}

	result := &interfaces.SettlementResult{
		ContestID: contestID,
		Pot:       contest.Pot,
	}

	// Idempotency gate against overlapping runs
	if contest.IsTerminal() {
		result.AlreadySettled = true
		log.WithFields(log.Fields{
			"contestID": contestID,
			"status":    contest.Status,
		}).Info("Contest already terminal, skipping settlement")
		return result, nil
	}

	participations, err := s.participationRepo.GetByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participations: %w", err)
	}

	top, winners := DetermineWinners(participations)
	shares := SplitPot(contest.Pot, len(winners))
	var bonus int64
	if contest.HasBonus() && len(winners) > 0 {
		bonus = DeterministicBonus(contestID, contest.BonusRule.Candidates)
	}

	shareByWinner := make(map[string]int64, len(winners))
	for i, accountID := range winners {
		shareByWinner[accountID] = shares[i]
	}

	settledAt := time.Now().UTC()
	contest.Status = entities.ContestStatusCompleted
	contest.Winners = winners
	contest.WinnerShares = shareByWinner
	contest.BonusPerWinner = bonus
	contest.SettledAt = &settledAt

	updated, err := s.contestRepo.MarkSettled(ctx, contest)
	if err != nil {
		return nil, fmt.Errorf("failed to mark contest settled: %w", err)
	}
	if !updated {
		result.AlreadySettled = true
		return result, nil
	}

	for _, p := range participations {
		payout := shareByWinner[p.AccountID]
		var participantBonus int64
		if _, isWinner := shareByWinner[p.AccountID]; isWinner {
			participantBonus = bonus
		}
		before := p.Payout
		if err := s.participationRepo.SetFinal(ctx, p.ID, p.LivePoints, payout, participantBonus); err != nil {
			return nil, fmt.Errorf("failed to freeze participation %d: %w", p.ID, err)
		}
		if err := s.leaderboardService.ApplyPayoutDelta(ctx, contest.GroupID, p.AccountID, before, &payout); err != nil {
			return nil, fmt.Errorf("failed to update leaderboard: %w", err)
		}
	}

	for _, accountID := range winners {
		amount := shareByWinner[accountID] + bonus
		if amount <= 0 {
			continue
		}
		grant, err := s.ledgerService.Grant(ctx, accountID, amount, utils.PayoutKey(contestID, accountID),
			entities.LedgerSourceContestPayout, map[string]any{
				"contest_id": contestID,
				"share":      shareByWinner[accountID],
				"bonus":      bonus,
			})
		if err != nil {
			return nil, fmt.Errorf("failed to pay winner %s: %w", accountID, err)
		}
		if grant.Applied {
			result.PayoutsApplied++
		}
	}

	if err := s.eventPublisher.Publish(events.ContestSettledEvent{
		ContestID:      contestID,
		GroupID:        contest.GroupID,
		Pot:            contest.Pot,
		Winners:        winners,
		WinnerShares:   shareByWinner,
		BonusPerWinner: bonus,
	}); err != nil {
		log.WithError(err).Error("Failed to publish contest settled event")
	}

	result.TopPoints = top
	result.Winners = winners
	result.Shares = shareByWinner
	result.BonusPerWinner = bonus
	return result, nil
}
