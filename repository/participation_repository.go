package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"pickem/domain/entities"

	"github.com/jackc/pgx/v5"
)

const participationColumns = `id, contest_id, account_id, picks, paid, live_points, final_points, payout, bonus, joined_at, updated_at`

// ParticipationRepository implements interfaces.ParticipationRepository
type ParticipationRepository struct {
	q Queryable
}

// NewParticipationRepository creates a new participation repository over a pool or transaction
func NewParticipationRepository(q Queryable) *ParticipationRepository {
	return &ParticipationRepository{q: q}
}

func scanParticipation(row pgx.Row) (*entities.Participation, error) {
	var p entities.Participation
	err := row.Scan(
		&p.ID,
		&p.ContestID,
		&p.AccountID,
		&p.Picks,
		&p.Paid,
		&p.LivePoints,
		&p.FinalPoints,
		&p.Payout,
		&p.Bonus,
		&p.JoinedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForUpdate retrieves and locks an account's participation in a contest
func (r *ParticipationRepository) GetForUpdate(ctx context.Context, contestID int64, accountID string) (*entities.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE contest_id = $1 AND account_id = $2 FOR UPDATE`

	p, err := scanParticipation(r.q.QueryRow(ctx, query, contestID, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participation of %s in contest %d: %w", accountID, contestID, err)
	}
	return p, nil
}

// UpsertPaid creates a paid participation or marks an existing one as paid
func (r *ParticipationRepository) UpsertPaid(ctx context.Context, contestID int64, accountID string, picks []string) (*entities.Participation, error) {
	query := `
		INSERT INTO participations (contest_id, account_id, picks, paid)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (contest_id, account_id) DO UPDATE SET
			paid = TRUE,
			picks = EXCLUDED.picks,
			updated_at = NOW()
		RETURNING ` + participationColumns

	p, err := scanParticipation(r.q.QueryRow(ctx, query, contestID, accountID, picks))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert participation of %s in contest %d: %w", accountID, contestID, err)
	}
	return p, nil
}

// UpdatePicks replaces a participation's picks
func (r *ParticipationRepository) UpdatePicks(ctx context.Context, id int64, picks []string) error {
	if _, err := r.q.Exec(ctx, `UPDATE participations SET picks = $2, updated_at = NOW() WHERE id = $1`, id, picks); err != nil {
		return fmt.Errorf("failed to update picks of participation %d: %w", id, err)
	}
	return nil
}

// GetByContest returns a contest's participations ordered by account id
func (r *ParticipationRepository) GetByContest(ctx context.Context, contestID int64) ([]*entities.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE contest_id = $1 ORDER BY account_id`

	rows, err := r.q.Query(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participations: %w", err)
	}
	defer rows.Close()

	var participations []*entities.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		participations = append(participations, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participations: %w", err)
	}
	return participations, nil
}

// UpdateLivePoints writes live points for many participations in one round trip
func (r *ParticipationRepository) UpdateLivePoints(ctx context.Context, points map[int64]int64) error {
	if len(points) == 0 {
		return nil
	}

	// Fixed order keeps row locks acquired in the same sequence across writers
	ids := make([]int64, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`UPDATE participations SET live_points = $2, updated_at = NOW() WHERE id = $1`, id, points[id])
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	for _, id := range ids {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to update live points of participation %d: %w", id, err)
		}
	}
	return nil
}

// SetFinal freezes final points, payout and bonus
func (r *ParticipationRepository) SetFinal(ctx context.Context, id int64, finalPoints, payout, bonus int64) error {
	query := `
		UPDATE participations
		SET final_points = $2, live_points = $2, payout = $3, bonus = $4, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, query, id, finalPoints, payout, bonus); err != nil {
		return fmt.Errorf("failed to finalize participation %d: %w", id, err)
	}
	return nil
}
