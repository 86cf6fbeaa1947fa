package application

import (
	"context"
	"fmt"

	"pickem/domain/services"

	log "github.com/sirupsen/logrus"
)

// LeaderboardRebuildWorker recomputes every group's leaderboard from
// completed contests, repairing any drift in the incremental updates
type LeaderboardRebuildWorker struct {
	uowFactory UnitOfWorkFactory
}

// NewLeaderboardRebuildWorker creates a new leaderboard rebuild worker
func NewLeaderboardRebuildWorker(uowFactory UnitOfWorkFactory) *LeaderboardRebuildWorker {
	return &LeaderboardRebuildWorker{uowFactory: uowFactory}
}

func (w *LeaderboardRebuildWorker) Name() string {
	return "leaderboard_rebuild"
}

func (w *LeaderboardRebuildWorker) Run(ctx context.Context) error {
	var groups []string
	err := readUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		var err error
		groups, err = uow.ContestRepository().GetGroupsWithCompletedContests(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get groups: %w", err)
	}

	var successCount, failureCount int
	for _, groupID := range groups {
		if err := w.RebuildGroup(ctx, groupID); err != nil {
			log.Errorf("Error rebuilding leaderboard for group %s: %v", groupID, err)
			failureCount++
		} else {
			successCount++
		}
	}

	log.WithFields(log.Fields{
		"total_groups": len(groups),
		"successful":   successCount,
		"failed":       failureCount,
	}).Info("Completed leaderboard rebuild")

	return nil
}

// RebuildGroup overwrites one group's rows
func (w *LeaderboardRebuildWorker) RebuildGroup(ctx context.Context, groupID string) error {
	return withUnitOfWork(ctx, w.uowFactory, func(uow UnitOfWork) error {
		leaderboardService := services.NewLeaderboardService(uow.LeaderboardRepository(), uow.AccountRepository())
		rows, err := leaderboardService.Rebuild(ctx, groupID)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"group_id": groupID,
			"rows":     rows,
		}).Debug("Leaderboard rebuilt")
		return nil
	})
}
