package services

import (
	"context"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type leaderboardService struct {
	leaderboardRepo interfaces.LeaderboardRepository
	profileLookup   interfaces.ProfileLookup
}

// NewLeaderboardService creates a new leaderboard service.
// profileLookup may be nil when display names are not needed.
func NewLeaderboardService(leaderboardRepo interfaces.LeaderboardRepository, profileLookup interfaces.ProfileLookup) interfaces.LeaderboardService {
	return &leaderboardService{
		leaderboardRepo: leaderboardRepo,
		profileLookup:   profileLookup,
	}
}

// Rebuild recomputes a group's rows from settled contests and overwrites them
func (s *leaderboardService) Rebuild(ctx context.Context, groupID string) (int, error) {
	rows, err := s.leaderboardRepo.AggregateGroup(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate leaderboard: %w", err)
	}
	if err := s.leaderboardRepo.ReplaceGroup(ctx, groupID, rows); err != nil {
		return 0, fmt.Errorf("failed to replace leaderboard rows: %w", err)
	}
	return len(rows), nil
}

// ApplyPayoutDelta increments a row by the change between two payout values
func (s *leaderboardService) ApplyPayoutDelta(ctx context.Context, groupID, accountID string, before, after *int64) error {
	delta := entities.PayoutDelta(before, after)
	if delta.IsZero() {
		return nil
	}
	if err := s.leaderboardRepo.ApplyDelta(ctx, groupID, accountID, delta); err != nil {
		return fmt.Errorf("failed to apply leaderboard delta: %w", err)
	}
	return nil
}

// Get returns the group's rows with display names filled in when available
func (s *leaderboardService) Get(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.leaderboardRepo.GetByGroup(ctx, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	if s.profileLookup == nil || len(rows) == 0 {
		return rows, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AccountID)
	}
	names, err := s.profileLookup.GetDisplayNames(ctx, ids)
	if err != nil {
		// Names are display-only
		log.WithError(err).Warn("Failed to resolve leaderboard display names")
		return rows, nil
	}
	for _, r := range rows {
		r.DisplayName = names[r.AccountID]
	}
	return rows, nil
}
