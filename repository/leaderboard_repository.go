package repository

import (
	"context"
	"fmt"

	"pickem/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LeaderboardRepository implements interfaces.LeaderboardRepository
type LeaderboardRepository struct {
	q Queryable
}

// NewLeaderboardRepository creates a new leaderboard repository over a pool or transaction
func NewLeaderboardRepository(q Queryable) *LeaderboardRepository {
	return &LeaderboardRepository{q: q}
}

func potAverage(potTotal, participations int64) float64 {
	if participations <= 0 {
		return 0
	}
	return float64(potTotal) / float64(participations)
}

// ApplyDelta atomically increments a row, creating it on first use
func (r *LeaderboardRepository) ApplyDelta(ctx context.Context, groupID, accountID string, delta entities.LeaderboardDelta) error {
	query := `
		INSERT INTO leaderboard_rows (group_id, account_id, wins, pot_total, participations, pot_avg, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (group_id, account_id) DO UPDATE SET
			wins = leaderboard_rows.wins + EXCLUDED.wins,
			pot_total = leaderboard_rows.pot_total + EXCLUDED.pot_total,
			participations = leaderboard_rows.participations + EXCLUDED.participations,
			pot_avg = CASE
				WHEN leaderboard_rows.participations + EXCLUDED.participations > 0
				THEN (leaderboard_rows.pot_total + EXCLUDED.pot_total)::DOUBLE PRECISION
					/ (leaderboard_rows.participations + EXCLUDED.participations)
				ELSE 0
			END,
			updated_at = NOW()
	`

	_, err := r.q.Exec(ctx, query,
		groupID,
		accountID,
		delta.Wins,
		delta.PotTotal,
		delta.Participations,
		potAverage(delta.PotTotal, delta.Participations),
	)
	if err != nil {
		return fmt.Errorf("failed to apply leaderboard delta for %s in %s: %w", accountID, groupID, err)
	}
	return nil
}

// AggregateGroup computes rows from the paid participations of a group's completed contests
func (r *LeaderboardRepository) AggregateGroup(ctx context.Context, groupID string) ([]*entities.LeaderboardRow, error) {
	query := `
		SELECT p.account_id,
			COUNT(*) FILTER (WHERE COALESCE(p.payout, 0) > 0) AS wins,
			COALESCE(SUM(p.payout), 0)::BIGINT AS pot_total,
			COUNT(*) AS participations
		FROM participations p
		JOIN contests c ON c.id = p.contest_id
		WHERE c.group_id = $1 AND c.status = 'completed' AND p.paid
		GROUP BY p.account_id
		ORDER BY p.account_id
	`

	rows, err := r.q.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leaderboard for %s: %w", groupID, err)
	}
	defer rows.Close()

	var result []*entities.LeaderboardRow
	for rows.Next() {
		row := &entities.LeaderboardRow{GroupID: groupID}
		if err := rows.Scan(&row.AccountID, &row.Wins, &row.PotTotal, &row.Participations); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard aggregate: %w", err)
		}
		row.PotAvg = potAverage(row.PotTotal, row.Participations)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard aggregate: %w", err)
	}
	return result, nil
}

// ReplaceGroup overwrites every row of a group. Run it inside a transaction.
func (r *LeaderboardRepository) ReplaceGroup(ctx context.Context, groupID string, rows []*entities.LeaderboardRow) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM leaderboard_rows WHERE group_id = $1`, groupID)
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO leaderboard_rows (group_id, account_id, wins, pot_total, participations, pot_avg, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`, groupID, row.AccountID, row.Wins, row.PotTotal, row.Participations, potAverage(row.PotTotal, row.Participations))
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to replace leaderboard for %s: %w", groupID, err)
		}
	}
	return nil
}

// GetByGroup returns a group's rows ranked by wins then pot total
func (r *LeaderboardRepository) GetByGroup(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error) {
	query := `
		SELECT group_id, account_id, wins, pot_total, pot_avg, participations, updated_at
		FROM leaderboard_rows
		WHERE group_id = $1
		ORDER BY wins DESC, pot_total DESC, account_id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard for %s: %w", groupID, err)
	}
	defer rows.Close()

	var result []*entities.LeaderboardRow
	for rows.Next() {
		var row entities.LeaderboardRow
		if err := rows.Scan(&row.GroupID, &row.AccountID, &row.Wins, &row.PotTotal, &row.PotAvg, &row.Participations, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}
	return result, nil
}
