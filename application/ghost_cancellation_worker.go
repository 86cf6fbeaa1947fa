package application

import (
	"context"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/services"

	log "github.com/sirupsen/logrus"
)

// GhostCancellationWorker cancels and refunds under-subscribed contests
// once their signup deadline passes
type GhostCancellationWorker struct {
	uowFactory      UnitOfWorkFactory
	minParticipants int64
	now             func() time.Time
}

// NewGhostCancellationWorker creates a new ghost cancellation worker
func NewGhostCancellationWorker(uowFactory UnitOfWorkFactory, minParticipants int64) *GhostCancellationWorker {
	return &GhostCancellationWorker{
		uowFactory:      uowFactory,
		minParticipants: minParticipants,
		now:             time.Now,
	}
}

func (w *GhostCancellationWorker) Name() string {
	return "ghost_cancellation"
}

func (w *GhostCancellationWorker) Run(ctx context.Context) error {
	now := w.now()

	var candidates []*entities.Contest
	err := readUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		var err error
		candidates, err = uow.ContestRepository().GetGhostCandidates(ctx, now, w.minParticipants)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get ghost candidates: %w", err)
	}

	if len(candidates) == 0 {
		return nil
	}

	var cancelledCount, failureCount int
	var refunded int64
	for _, contest := range candidates {
		var result *interfaces.GhostCancellationResult
		err := withUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
			ghostService := services.NewGhostCancellationService(
				uow.ContestRepository(),
				uow.ParticipationRepository(),
				ledgerFor(uow),
				uow.EventBus(),
				w.minParticipants,
			)
			var err error
			result, err = ghostService.CancelIfGhost(ctx, contest.ID, now)
			return err
		})
		if err != nil {
			log.Errorf("Error cancelling ghost contest %d: %v", contest.ID, err)
			failureCount++
			continue
		}

		if result.Cancelled {
			cancelledCount++
			refunded += result.RefundedTotal
			log.WithFields(log.Fields{
				"contest_id": contest.ID,
				"refunds":    result.RefundsIssued,
				"refunded":   result.RefundedTotal,
			}).Info("Ghost contest cancelled")
		}
	}

	log.WithFields(log.Fields{
		"total_candidates": len(candidates),
		"cancelled":        cancelledCount,
		"refunded_total":   refunded,
		"failed":           failureCount,
	}).Info("Completed ghost contest cancellation")

	return nil
}
