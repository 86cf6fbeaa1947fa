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

type ghostCancellationService struct {
	contestRepo       interfaces.ContestRepository
	participationRepo interfaces.ParticipationRepository
	ledgerService     interfaces.LedgerService
	eventPublisher    interfaces.EventPublisher
	minParticipants   int64
}

// NewGhostCancellationService creates a new ghost cancellation service
func NewGhostCancellationService(
	contestRepo interfaces.ContestRepository,
	participationRepo interfaces.ParticipationRepository,
	ledgerService interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
	minParticipants int64,
) interfaces.GhostCancellationService {
	return &ghostCancellationService{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
		ledgerService:     ledgerService,
		eventPublisher:    eventPublisher,
		minParticipants:   minParticipants,
	}
}

// CancelIfGhost refunds every paid entrant of an under-subscribed contest past its
// signup deadline and marks it cancelled. Conditions are re-checked under the row lock.
func (s *ghostCancellationService) CancelIfGhost(ctx context.Context, contestID int64, now time.Time) (*interfaces.GhostCancellationResult, error) {
	contest, err := s.contestRepo.GetByIDForUpdate(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest for update: %w", err)
	}
	if contest == nil {
		return nil, entities.ErrContestNotFound
	}

	result := &interfaces.GhostCancellationResult{ContestID: contestID}
	if !contest.IsGhost(now, s.minParticipants) {
		return result, nil
	}

	participations, err := s.participationRepo.GetByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participations: %w", err)
	}

	var refundedTo []string
	for _, p := range participations {
		if !p.Paid || contest.EntryCost <= 0 {
			continue
		}
		grant, err := s.ledgerService.Grant(ctx, p.AccountID, contest.EntryCost, utils.RefundKey(contestID, p.AccountID),
			entities.LedgerSourceContestRefund, map[string]any{"contest_id": contestID})
		if err != nil {
			return nil, fmt.Errorf("failed to refund %s: %w", p.AccountID, err)
		}
		if grant.Applied {
			result.RefundsIssued++
			result.RefundedTotal += contest.EntryCost
			refundedTo = append(refundedTo, p.AccountID)
		}
	}

	updated, err := s.contestRepo.MarkGhostCancelled(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark contest cancelled: %w", err)
	}
	if !updated {
		return nil, fmt.Errorf("contest %d changed state during cancellation", contestID)
	}
	result.Cancelled = true

	if err := s.eventPublisher.Publish(events.ContestCancelledEvent{
		ContestID:     contestID,
		GroupID:       contest.GroupID,
		RefundedTo:    refundedTo,
		RefundedTotal: result.RefundedTotal,
	}); err != nil {
		log.WithError(err).Error("Failed to publish contest cancelled event")
	}

	return result, nil
}
