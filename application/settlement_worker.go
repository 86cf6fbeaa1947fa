package application

import (
	"context"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/services"
	"pickem/domain/utils"

	log "github.com/sirupsen/logrus"
)

const defaultFinalPassTimeout = 30 * time.Second

// SettlementWorker settles contests whose game date has passed
type SettlementWorker struct {
	uowFactory       UnitOfWorkFactory
	ingestion        *ScoringIngestionWorker
	location         *time.Location
	finalPassTimeout time.Duration
	now              func() time.Time
}

// NewSettlementWorker creates a new settlement worker. ingestion may be nil,
// in which case contests settle on their last stored scores.
func NewSettlementWorker(uowFactory UnitOfWorkFactory, ingestion *ScoringIngestionWorker, location *time.Location) *SettlementWorker {
	if location == nil {
		location = time.UTC
	}
	return &SettlementWorker{
		uowFactory:       uowFactory,
		ingestion:        ingestion,
		location:         location,
		finalPassTimeout: defaultFinalPassTimeout,
		now:              time.Now,
	}
}

func (w *SettlementWorker) Name() string {
	return "settlement"
}

// Run settles every non-terminal contest dated yesterday or earlier
func (w *SettlementWorker) Run(ctx context.Context) error {
	yesterday := utils.Yesterday(w.now(), w.location)

	var contests []*entities.Contest
	err := readUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		var err error
		contests, err = uow.ContestRepository().GetDueForSettlement(ctx, yesterday)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get contests due for settlement: %w", err)
	}

	if len(contests) == 0 {
		log.Debug("No contests due for settlement")
		return nil
	}

	var settledCount, skippedCount, failureCount int
	for _, contest := range contests {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result, err := w.SettleContest(ctx, contest)
		if err != nil {
			log.Errorf("Error settling contest %d: %v", contest.ID, err)
			failureCount++
			continue
		}
		if result.AlreadySettled {
			skippedCount++
		} else {
			settledCount++
		}
	}

	log.WithFields(log.Fields{
		"total_contests": len(contests),
		"settled":        settledCount,
		"already":        skippedCount,
		"failed":         failureCount,
		"cutoff_day":     yesterday,
	}).Info("Completed contest settlement")

	return nil
}

// SettleContest runs a bounded final ingestion pass, then settles the contest
// on whatever scores are stored.
func (w *SettlementWorker) SettleContest(ctx context.Context, contest *entities.Contest) (*interfaces.SettlementResult, error) {
	if w.ingestion != nil {
		passCtx, cancel := context.WithTimeout(ctx, w.finalPassTimeout)
		if err := w.ingestion.IngestContest(passCtx, contest); err != nil {
			log.WithField("contest_id", contest.ID).Warnf("Final ingestion pass failed, settling on stored scores: %v", err)
		}
		cancel()
	}

	var outcome *interfaces.SettlementResult
	err := withUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		ledger := ledgerFor(uow)
		settlementService := services.NewSettlementService(
			uow.ContestRepository(),
			uow.ParticipationRepository(),
			ledger,
			services.NewLeaderboardService(uow.LeaderboardRepository(), uow.AccountRepository()),
			uow.EventBus(),
		)
		var err error
		outcome, err = settlementService.Settle(ctx, contest.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !outcome.AlreadySettled {
		log.WithFields(log.Fields{
			"contest_id":       contest.ID,
			"pot":              outcome.Pot,
			"winners":          outcome.Winners,
			"top_points":       entities.FormatPoints(outcome.TopPoints),
			"bonus_per_winner": outcome.BonusPerWinner,
		}).Info("Contest settled")
	}
	return outcome, nil
}
