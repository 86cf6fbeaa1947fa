package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pickem/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LiveStatsRepository implements interfaces.LiveStatsRepository
type LiveStatsRepository struct {
	q Queryable
}

// NewLiveStatsRepository creates a new live stats repository over a pool or transaction
func NewLiveStatsRepository(q Queryable) *LiveStatsRepository {
	return &LiveStatsRepository{q: q}
}

// Replace overwrites a contest's snapshot
func (r *LiveStatsRepository) Replace(ctx context.Context, snapshot *entities.LiveStatsSnapshot) error {
	goals, err := json.Marshal(nonNilTallies(snapshot.Goals))
	if err != nil {
		return fmt.Errorf("failed to encode goals: %w", err)
	}
	assists, err := json.Marshal(nonNilTallies(snapshot.Assists))
	if err != nil {
		return fmt.Errorf("failed to encode assists: %w", err)
	}
	points, err := json.Marshal(nonNilTallies(snapshot.Points))
	if err != nil {
		return fmt.Errorf("failed to encode points: %w", err)
	}

	query := `
		INSERT INTO live_stats_snapshots (contest_id, goals, assists, points, games_fetched, games_failed, updated_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5, $6, NOW())
		ON CONFLICT (contest_id) DO UPDATE SET
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			points = EXCLUDED.points,
			games_fetched = EXCLUDED.games_fetched,
			games_failed = EXCLUDED.games_failed,
			updated_at = NOW()
		RETURNING updated_at
	`

	err = r.q.QueryRow(ctx, query,
		snapshot.ContestID,
		string(goals),
		string(assists),
		string(points),
		snapshot.GamesFetched,
		snapshot.GamesFailed,
	).Scan(&snapshot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to replace snapshot of contest %d: %w", snapshot.ContestID, err)
	}
	return nil
}

// GetByContest returns a contest's snapshot
func (r *LiveStatsRepository) GetByContest(ctx context.Context, contestID int64) (*entities.LiveStatsSnapshot, error) {
	query := `
		SELECT contest_id, goals, assists, points, games_fetched, games_failed, updated_at
		FROM live_stats_snapshots
		WHERE contest_id = $1
	`

	s := entities.NewLiveStatsSnapshot(contestID)
	var goals, assists, points []byte
	err := r.q.QueryRow(ctx, query, contestID).Scan(
		&s.ContestID,
		&goals,
		&assists,
		&points,
		&s.GamesFetched,
		&s.GamesFailed,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot of contest %d: %w", contestID, err)
	}

	for _, field := range []struct {
		raw    []byte
		target *map[string]int64
	}{{goals, &s.Goals}, {assists, &s.Assists}, {points, &s.Points}} {
		if err := json.Unmarshal(field.raw, field.target); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot of contest %d: %w", contestID, err)
		}
	}
	return s, nil
}

func nonNilTallies(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}
