package application

import (
	"context"
	"errors"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/services"

	log "github.com/sirupsen/logrus"
)

// ScoringIngestionWorker refreshes live stats for active contests. Feed calls
// happen outside any transaction; each contest's result is applied in its own
// unit of work.
type ScoringIngestionWorker struct {
	uowFactory UnitOfWorkFactory
	builder    interfaces.SnapshotBuilder
	metrics    JobMetrics
}

// NewScoringIngestionWorker creates a new scoring ingestion worker
func NewScoringIngestionWorker(uowFactory UnitOfWorkFactory, builder interfaces.SnapshotBuilder, metrics JobMetrics) *ScoringIngestionWorker {
	return &ScoringIngestionWorker{
		uowFactory: uowFactory,
		builder:    builder,
		metrics:    metricsOrNoop(metrics),
	}
}

func (w *ScoringIngestionWorker) Name() string {
	return "scoring_ingestion"
}

// Run ingests every contest that is not yet terminal
func (w *ScoringIngestionWorker) Run(ctx context.Context) error {
	var contests []*entities.Contest
	err := readUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		var err error
		contests, err = uow.ContestRepository().GetByStatuses(ctx, entities.ActiveContestStatuses)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get active contests: %w", err)
	}

	var successCount, skippedCount, failureCount int
	for _, contest := range contests {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := w.IngestContest(ctx, contest)
		var fetchErr *entities.FetchError
		switch {
		case err == nil:
			successCount++
		case errors.As(err, &fetchErr):
			log.WithFields(log.Fields{
				"contest_id": contest.ID,
				"kind":       fetchErr.Kind,
			}).Warnf("Skipping contest ingestion this cycle: %v", err)
			skippedCount++
		default:
			log.Errorf("Error ingesting contest %d: %v", contest.ID, err)
			failureCount++
		}
	}

	log.WithFields(log.Fields{
		"total_contests": len(contests),
		"successful":     successCount,
		"skipped":        skippedCount,
		"failed":         failureCount,
	}).Info("Completed scoring ingestion")

	return nil
}

// IngestContest runs one ingestion pass for a contest. A feed failure leaves
// the stored snapshot untouched and is returned as *entities.FetchError.
func (w *ScoringIngestionWorker) IngestContest(ctx context.Context, contest *entities.Contest) error {
	snapshot, err := w.builder.BuildSnapshot(ctx, contest)
	if err != nil {
		w.metrics.RecordIngestionPass(ingestionSkipped)
		return err
	}

	var updated int
	err = withUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		scoringService := services.NewScoringService(
			uow.ContestRepository(),
			uow.ParticipationRepository(),
			uow.LiveStatsRepository(),
		)
		var err error
		updated, err = scoringService.ApplySnapshot(ctx, snapshot)
		return err
	})
	if err != nil {
		w.metrics.RecordIngestionPass(ingestionFailed)
		return fmt.Errorf("failed to apply snapshot: %w", err)
	}

	w.metrics.RecordIngestionPass(ingestionApplied)
	log.WithFields(log.Fields{
		"contest_id":     contest.ID,
		"games_fetched":  snapshot.GamesFetched,
		"games_failed":   snapshot.GamesFailed,
		"participations": updated,
	}).Debug("Applied live stats snapshot")
	return nil
}
