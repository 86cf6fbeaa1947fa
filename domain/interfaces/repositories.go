package interfaces

import (
	"context"
	"time"

	"pickem/domain/entities"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account, returning nil if it does not exist
	GetByID(ctx context.Context, accountID string) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, accountID string) (*entities.Account, error)

	// Create inserts an account with a zero balance, returning the existing row if present
	Create(ctx context.Context, accountID, displayName string) (*entities.Account, error)

	// UpdateBalance writes a new balance; only the ledger calls this
	UpdateBalance(ctx context.Context, accountID string, newBalance int64) error

	// IncrementParticipations bumps the lifetime participation counter
	IncrementParticipations(ctx context.Context, accountID string) error

	// GetDisplayNames returns display names keyed by account id
	GetDisplayNames(ctx context.Context, accountIDs []string) (map[string]string, error)
}

// LedgerEntryRepository defines the interface for ledger entry data access
type LedgerEntryRepository interface {
	// GetByIdempotencyKey returns the entry for a key, or nil
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.LedgerEntry, error)

	// Create inserts an entry unless its key is already taken.
	// Returns false without error when the key already exists.
	Create(ctx context.Context, entry *entities.LedgerEntry) (bool, error)

	// GetByAccount returns the most recent entries for an account
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error)

	// SumByAccount returns the sum of all entry amounts for an account
	SumByAccount(ctx context.Context, accountID string) (int64, error)

	// CountByKeyPrefix counts an account's entries of a source whose key starts with prefix
	CountByKeyPrefix(ctx context.Context, accountID string, source entities.LedgerSource, prefix string) (int64, error)
}

// ContestRepository defines the interface for contest data access
type ContestRepository interface {
	// Create inserts a new contest and fills its ID and timestamps
	Create(ctx context.Context, contest *entities.Contest) error

	// GetByID retrieves a contest, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Contest, error)

	// GetByIDForUpdate retrieves a contest with a row lock
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Contest, error)

	// GetByStatuses returns every contest in one of the given statuses
	GetByStatuses(ctx context.Context, statuses []entities.ContestStatus) ([]*entities.Contest, error)

	// GetDueForSettlement returns non-terminal contests whose game date is on or before the given day
	GetDueForSettlement(ctx context.Context, onOrBefore string) ([]*entities.Contest, error)

	// GetGhostCandidates returns open, unhandled contests past their deadline with too few participants
	GetGhostCandidates(ctx context.Context, now time.Time, minParticipants int64) ([]*entities.Contest, error)

	// IncrementPotAndCount atomically adds amount to the pot and one to the participant count
	// of an open contest. Returns false if the contest is no longer open.
	IncrementPotAndCount(ctx context.Context, id int64, amount int64) (newPot int64, updated bool, err error)

	// UpdateStatus moves a contest from one status to another, returning false if it was no longer in from
	UpdateStatus(ctx context.Context, id int64, from, to entities.ContestStatus) (bool, error)

	// MarkSettled writes the settlement outcome unless the contest is already terminal
	MarkSettled(ctx context.Context, contest *entities.Contest) (bool, error)

	// MarkGhostCancelled sets cancelled_ghost and ghost_handled on an open, unhandled contest
	MarkGhostCancelled(ctx context.Context, id int64) (bool, error)

	// GetGroupsWithCompletedContests lists group ids that have at least one completed contest
	GetGroupsWithCompletedContests(ctx context.Context) ([]string, error)
}

// ParticipationRepository defines the interface for participation data access
type ParticipationRepository interface {
	// GetForUpdate retrieves the participation of an account in a contest with a row lock, or nil
	GetForUpdate(ctx context.Context, contestID int64, accountID string) (*entities.Participation, error)

	// UpsertPaid creates the participation or marks an existing unpaid one as paid
	UpsertPaid(ctx context.Context, contestID int64, accountID string, picks []string) (*entities.Participation, error)

	// UpdatePicks replaces the picks of a participation
	UpdatePicks(ctx context.Context, id int64, picks []string) error

	// GetByContest returns all participations of a contest ordered by account id
	GetByContest(ctx context.Context, contestID int64) ([]*entities.Participation, error)

	// UpdateLivePoints writes live points keyed by participation id
	UpdateLivePoints(ctx context.Context, points map[int64]int64) error

	// SetFinal freezes final points, payout and bonus
	SetFinal(ctx context.Context, id int64, finalPoints, payout, bonus int64) error
}

// LiveStatsRepository defines the interface for live stats snapshot data access
type LiveStatsRepository interface {
	// Replace overwrites the snapshot of a contest
	Replace(ctx context.Context, snapshot *entities.LiveStatsSnapshot) error

	// GetByContest returns the snapshot of a contest, or nil
	GetByContest(ctx context.Context, contestID int64) (*entities.LiveStatsSnapshot, error)
}

// LeaderboardRepository defines the interface for leaderboard data access
type LeaderboardRepository interface {
	// ApplyDelta atomically increments a row, creating it if needed
	ApplyDelta(ctx context.Context, groupID, accountID string, delta entities.LeaderboardDelta) error

	// AggregateGroup computes rows from the participations of completed contests in a group
	AggregateGroup(ctx context.Context, groupID string) ([]*entities.LeaderboardRow, error)

	// ReplaceGroup overwrites all rows of a group
	ReplaceGroup(ctx context.Context, groupID string, rows []*entities.LeaderboardRow) error

	// GetByGroup returns the rows of a group ordered by wins then pot total
	GetByGroup(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error)
}
