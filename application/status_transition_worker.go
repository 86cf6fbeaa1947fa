package application

import (
	"context"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/services"

	log "github.com/sirupsen/logrus"
)

// StatusTransitionWorker advances non-terminal contests along their lifecycle
type StatusTransitionWorker struct {
	uowFactory      UnitOfWorkFactory
	minParticipants int64
	now             func() time.Time
}

// NewStatusTransitionWorker creates a new status transition worker
func NewStatusTransitionWorker(uowFactory UnitOfWorkFactory, minParticipants int64) *StatusTransitionWorker {
	return &StatusTransitionWorker{
		uowFactory:      uowFactory,
		minParticipants: minParticipants,
		now:             time.Now,
	}
}

func (w *StatusTransitionWorker) Name() string {
	return "status_transition"
}

// Run evaluates every non-terminal contest against the clock
func (w *StatusTransitionWorker) Run(ctx context.Context) error {
	var contests []*entities.Contest
	err := readUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		var err error
		contests, err = uow.ContestRepository().GetByStatuses(ctx, entities.ActiveContestStatuses)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get active contests: %w", err)
	}

	now := w.now()
	var changedCount, failureCount int
	for _, contest := range contests {
		// Cheap pre-check on the stale copy; Advance re-reads under lock
		if contest.NextStatus(now, w.minParticipants) == contest.Status {
			continue
		}

		changed, err := w.advance(ctx, contest.ID, now)
		if err != nil {
			log.Errorf("Error advancing contest %d: %v", contest.ID, err)
			failureCount++
			continue
		}
		if changed {
			changedCount++
		}
	}

	log.WithFields(log.Fields{
		"total_contests": len(contests),
		"changed":        changedCount,
		"failed":         failureCount,
	}).Debug("Completed status transitions")

	return nil
}

func (w *StatusTransitionWorker) advance(ctx context.Context, contestID int64, now time.Time) (bool, error) {
	var changed bool
	err := withUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		statusService := services.NewContestStatusService(uow.ContestRepository(), uow.EventBus(), w.minParticipants)
		transition, err := statusService.Advance(ctx, contestID, now)
		if err != nil {
			return err
		}
		changed = transition.Changed
		if changed {
			log.WithFields(log.Fields{
				"contest_id": contestID,
				"from":       transition.From,
				"to":         transition.To,
			}).Info("Contest status advanced")
		}
		return nil
	})
	return changed, err
}
