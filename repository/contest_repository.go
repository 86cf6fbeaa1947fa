package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pickem/domain/entities"

	"github.com/jackc/pgx/v5"
)

const contestColumns = `id, group_id, title, status, entry_cost, pot, participants_count, game_date,
	starts_at, ends_at, signup_deadline, bonus_rule, bonus_per_winner, winners, winner_shares,
	ghost_handled, settled_at, created_by, created_at, updated_at`

// ContestRepository implements interfaces.ContestRepository
type ContestRepository struct {
	q Queryable
}

// NewContestRepository creates a new contest repository over a pool or transaction
func NewContestRepository(q Queryable) *ContestRepository {
	return &ContestRepository{q: q}
}

func scanContest(row pgx.Row) (*entities.Contest, error) {
	var c entities.Contest
	var bonusRule, winnerShares []byte
	err := row.Scan(
		&c.ID,
		&c.GroupID,
		&c.Title,
		&c.Status,
		&c.EntryCost,
		&c.Pot,
		&c.ParticipantsCount,
		&c.GameDate,
		&c.StartsAt,
		&c.EndsAt,
		&c.SignupDeadline,
		&bonusRule,
		&c.BonusPerWinner,
		&c.Winners,
		&winnerShares,
		&c.GhostHandled,
		&c.SettledAt,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(bonusRule) > 0 {
		var rule entities.BonusRule
		if err := json.Unmarshal(bonusRule, &rule); err != nil {
			return nil, fmt.Errorf("failed to decode bonus rule: %w", err)
		}
		c.BonusRule = &rule
	}
	if len(winnerShares) > 0 {
		if err := json.Unmarshal(winnerShares, &c.WinnerShares); err != nil {
			return nil, fmt.Errorf("failed to decode winner shares: %w", err)
		}
	}
	return &c, nil
}

func (r *ContestRepository) queryContests(ctx context.Context, query string, args ...any) ([]*entities.Contest, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contests: %w", err)
	}
	defer rows.Close()

	var contests []*entities.Contest
	for rows.Next() {
		contest, err := scanContest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contest: %w", err)
		}
		contests = append(contests, contest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contests: %w", err)
	}
	return contests, nil
}

// Create inserts a new contest and fills its ID and timestamps
func (r *ContestRepository) Create(ctx context.Context, contest *entities.Contest) error {
	var bonusRule any
	if contest.BonusRule != nil {
		encoded, err := json.Marshal(contest.BonusRule)
		if err != nil {
			return fmt.Errorf("failed to encode bonus rule: %w", err)
		}
		bonusRule = string(encoded)
	}

	query := `
		INSERT INTO contests (group_id, title, status, entry_cost, game_date, starts_at, ends_at,
			signup_deadline, bonus_rule, created_by)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9::jsonb, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		contest.GroupID,
		contest.Title,
		contest.Status,
		contest.EntryCost,
		contest.GameDay(),
		contest.StartsAt,
		contest.EndsAt,
		contest.SignupDeadline,
		bonusRule,
		contest.CreatedBy,
	).Scan(&contest.ID, &contest.CreatedAt, &contest.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contest: %w", err)
	}
	return nil
}

// GetByID retrieves a contest by id
func (r *ContestRepository) GetByID(ctx context.Context, id int64) (*entities.Contest, error) {
	contest, err := scanContest(r.q.QueryRow(ctx, `SELECT `+contestColumns+` FROM contests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contest %d: %w", id, err)
	}
	return contest, nil
}

// GetByIDForUpdate retrieves a contest and holds its row lock until the transaction ends
func (r *ContestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Contest, error) {
	contest, err := scanContest(r.q.QueryRow(ctx, `SELECT `+contestColumns+` FROM contests WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock contest %d: %w", id, err)
	}
	return contest, nil
}

// GetByStatuses returns contests in any of the given statuses, oldest first
func (r *ContestRepository) GetByStatuses(ctx context.Context, statuses []entities.ContestStatus) ([]*entities.Contest, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return r.queryContests(ctx,
		`SELECT `+contestColumns+` FROM contests WHERE status = ANY($1) ORDER BY id`,
		values,
	)
}

// GetDueForSettlement returns non-terminal contests whose game date is on or before the given day
func (r *ContestRepository) GetDueForSettlement(ctx context.Context, onOrBefore string) ([]*entities.Contest, error) {
	return r.queryContests(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE status IN ('open', 'live', 'awaiting_result')
		  AND game_date <= $1::date
		ORDER BY game_date, id
	`, onOrBefore)
}

// GetGhostCandidates returns open contests past their signup deadline with too few participants
func (r *ContestRepository) GetGhostCandidates(ctx context.Context, now time.Time, minParticipants int64) ([]*entities.Contest, error) {
	return r.queryContests(ctx, `
		SELECT `+contestColumns+`
		FROM contests
		WHERE status = 'open'
		  AND NOT ghost_handled
		  AND signup_deadline < $1
		  AND participants_count < $2
		ORDER BY id
	`, now, minParticipants)
}

// IncrementPotAndCount atomically escrows an entry fee into an open contest
func (r *ContestRepository) IncrementPotAndCount(ctx context.Context, id int64, amount int64) (int64, bool, error) {
	query := `
		UPDATE contests
		SET pot = pot + $2, participants_count = participants_count + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
		RETURNING pot
	`

	var pot int64
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&pot)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to increment pot for contest %d: %w", id, err)
	}
	return pot, true, nil
}

// UpdateStatus moves a contest from one status to another if it is still in from
func (r *ContestRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.ContestStatus) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE contests SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update status of contest %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkSettled writes the settlement outcome unless the contest is already terminal
func (r *ContestRepository) MarkSettled(ctx context.Context, contest *entities.Contest) (bool, error) {
	winners := contest.Winners
	if winners == nil {
		winners = []string{}
	}
	shares := contest.WinnerShares
	if shares == nil {
		shares = map[string]int64{}
	}
	encodedShares, err := json.Marshal(shares)
	if err != nil {
		return false, fmt.Errorf("failed to encode winner shares: %w", err)
	}

	query := `
		UPDATE contests
		SET status = 'completed',
			winners = $2,
			winner_shares = $3::jsonb,
			bonus_per_winner = $4,
			settled_at = $5,
			updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'cancelled_ghost')
	`

	tag, err := r.q.Exec(ctx, query, contest.ID, winners, string(encodedShares), contest.BonusPerWinner, contest.SettledAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark contest %d settled: %w", contest.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkGhostCancelled cancels an open, unhandled contest
func (r *ContestRepository) MarkGhostCancelled(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE contests
		SET status = 'cancelled_ghost', ghost_handled = TRUE, updated_at = NOW()
		WHERE id = $1 AND status = 'open' AND NOT ghost_handled
	`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel contest %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetGroupsWithCompletedContests lists groups that have at least one completed contest
func (r *ContestRepository) GetGroupsWithCompletedContests(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT group_id FROM contests WHERE status = 'completed' ORDER BY group_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var groupID string
		if err := rows.Scan(&groupID); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, groupID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return groups, nil
}
