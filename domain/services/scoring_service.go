package services

import (
	"context"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// FoldScoringEvents adds goal and assist tallies from events into a snapshot.
// Events from the tie-breaking period are ignored.
func FoldScoringEvents(snapshot *entities.LiveStatsSnapshot, scoringEvents []entities.ScoringEvent, weights entities.ScoringWeights) {
	for _, e := range scoringEvents {
		if !e.CountsTowardScore() {
			continue
		}
		if e.ScorerID != "" {
			snapshot.Goals[e.ScorerID]++
			snapshot.Points[e.ScorerID] += weights.GoalPoints
		}
		for _, assistID := range e.AssistIDs {
			if assistID == "" {
				continue
			}
			snapshot.Assists[assistID]++
			snapshot.Points[assistID] += weights.AssistPoints
		}
	}
}

// snapshotBuilder derives live stats for a contest from the sports feed
type snapshotBuilder struct {
	feed    interfaces.SportsFeed
	weights entities.ScoringWeights
}

// NewSnapshotBuilder creates a new snapshot builder
func NewSnapshotBuilder(feed interfaces.SportsFeed, weights entities.ScoringWeights) interfaces.SnapshotBuilder {
	return &snapshotBuilder{
		feed:    feed,
		weights: weights,
	}
}

// BuildSnapshot fetches the contest date's games and folds their events.
// A schedule failure fails the whole contest; a game failure only skips that game.
func (b *snapshotBuilder) BuildSnapshot(ctx context.Context, contest *entities.Contest) (*entities.LiveStatsSnapshot, error) {
	games, err := b.feed.GetSchedule(ctx, contest.GameDay())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for contest %d: %w", contest.ID, err)
	}

	snapshot := entities.NewLiveStatsSnapshot(contest.ID)
	for _, game := range games {
		gameEvents, err := b.feed.GetScoringEvents(ctx, game.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("snapshot for contest %d interrupted: %w", contest.ID, ctx.Err())
			}
			log.WithFields(log.Fields{
				"contestID": contest.ID,
				"gameID":    game.ID,
				"error":     err,
			}).Warn("Skipping game this cycle")
			snapshot.GamesFailed++
			continue
		}
		FoldScoringEvents(snapshot, gameEvents, b.weights)
		snapshot.GamesFetched++
	}
	snapshot.UpdatedAt = time.Now().UTC()

	return snapshot, nil
}

// scoringService persists snapshots and recomputes live points
type scoringService struct {
	contestRepo       interfaces.ContestRepository
	participationRepo interfaces.ParticipationRepository
	liveStatsRepo     interfaces.LiveStatsRepository
}

// NewScoringService creates a new scoring service
func NewScoringService(
	contestRepo interfaces.ContestRepository,
	participationRepo interfaces.ParticipationRepository,
	liveStatsRepo interfaces.LiveStatsRepository,
) interfaces.ScoringService {
	return &scoringService{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
		liveStatsRepo:     liveStatsRepo,
	}
}

// ApplySnapshot replaces the stored snapshot and rewrites live points for every participation
func (s *scoringService) ApplySnapshot(ctx context.Context, snapshot *entities.LiveStatsSnapshot) (int, error) {
	// Locked so a concurrent settlement cannot commit between the status check and the writes
	contest, err := s.contestRepo.GetByIDForUpdate(ctx, snapshot.ContestID)
	if err != nil {
		return 0, fmt.Errorf("failed to get contest: %w", err)
	}
	if contest == nil {
		return 0, entities.ErrContestNotFound
	}
	if contest.IsTerminal() {
		return 0, nil
	}

	if err := s.liveStatsRepo.Replace(ctx, snapshot); err != nil {
		return 0, fmt.Errorf("failed to replace live stats: %w", err)
	}

	participations, err := s.participationRepo.GetByContest(ctx, snapshot.ContestID)
	if err != nil {
		return 0, fmt.Errorf("failed to get participations: %w", err)
	}
	if len(participations) == 0 {
		return 0, nil
	}

	points := make(map[int64]int64, len(participations))
	for _, p := range participations {
		points[p.ID] = snapshot.PointsFor(p.Picks)
	}
	if err := s.participationRepo.UpdateLivePoints(ctx, points); err != nil {
		return 0, fmt.Errorf("failed to update live points: %w", err)
	}

	return len(points), nil
}
