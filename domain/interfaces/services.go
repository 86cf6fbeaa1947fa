package interfaces

import (
	"context"
	"time"

	"pickem/domain/entities"
)

// LedgerService is the only way account balances change
type LedgerService interface {
	// Grant credits amount to an account once per idempotency key
	Grant(ctx context.Context, accountID string, amount int64, key string, source entities.LedgerSource, meta map[string]any) (*entities.GrantResult, error)

	// Debit removes amount from an account once per idempotency key
	Debit(ctx context.Context, accountID string, amount int64, key string, source entities.LedgerSource, meta map[string]any) (*entities.GrantResult, error)

	// History returns recent entries for an account
	History(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error)

	// Reconcile reports whether the stored balance equals the sum of the account's entries
	Reconcile(ctx context.Context, accountID string) (*BalanceReconciliation, error)
}

// BalanceReconciliation compares an account's balance with its ledger
type BalanceReconciliation struct {
	AccountID    string
	Balance      int64
	LedgerSum    int64
	IsConsistent bool
}

// JoinResult is returned by a contest join
type JoinResult struct {
	ContestID int64
	Pot       int64
	Balance   int64
	Charged   bool
}

// ParticipationService handles joining contests
type ParticipationService interface {
	Join(ctx context.Context, contestID int64, accountID string, picks []string) (*JoinResult, error)
}

// SnapshotBuilder derives live stats from the external feed without touching storage
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, contest *entities.Contest) (*entities.LiveStatsSnapshot, error)
}

// ScoringService persists snapshots and recomputes live points
type ScoringService interface {
	// ApplySnapshot overwrites the snapshot and rewrites every participation's live points.
	// Returns the number of participations updated.
	ApplySnapshot(ctx context.Context, snapshot *entities.LiveStatsSnapshot) (int, error)
}

// StatusTransition describes the outcome of one status evaluation
type StatusTransition struct {
	ContestID int64
	From      entities.ContestStatus
	To        entities.ContestStatus
	Changed   bool
}

// ContestStatusService advances contests along their lifecycle
type ContestStatusService interface {
	Advance(ctx context.Context, contestID int64, now time.Time) (*StatusTransition, error)
}

// SettlementResult describes the outcome of settling one contest
type SettlementResult struct {
	ContestID      int64
	AlreadySettled bool
	Pot            int64
	TopPoints      int64
	Winners        []string
	Shares         map[string]int64
	BonusPerWinner int64
	PayoutsApplied int
}

// SettlementService settles contests into their terminal state
type SettlementService interface {
	Settle(ctx context.Context, contestID int64) (*SettlementResult, error)
}

// GhostCancellationResult describes the outcome of one ghost check
type GhostCancellationResult struct {
	ContestID     int64
	Cancelled     bool
	RefundsIssued int
	RefundedTotal int64
}

// GhostCancellationService cancels and refunds under-subscribed contests
type GhostCancellationService interface {
	CancelIfGhost(ctx context.Context, contestID int64, now time.Time) (*GhostCancellationResult, error)
}

// LeaderboardService maintains per-group leaderboards
type LeaderboardService interface {
	// Rebuild recomputes a group's rows from completed contests
	Rebuild(ctx context.Context, groupID string) (int, error)

	// ApplyPayoutDelta applies the change implied by a participation payout write
	ApplyPayoutDelta(ctx context.Context, groupID, accountID string, before, after *int64) error

	// Get returns a group's rows with display names
	Get(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error)
}

// DailyBonusService grants the once-per-day credit
type DailyBonusService interface {
	Claim(ctx context.Context, accountID string, now time.Time) (*entities.DailyBonusResult, error)
}

// PurchaseService turns payment callbacks into credit grants
type PurchaseService interface {
	HandlePurchase(ctx context.Context, event *entities.PurchaseEvent) (*entities.GrantResult, error)
}

// ContestService creates and reads contests
type ContestService interface {
	CreateContest(ctx context.Context, contest *entities.Contest, invitees []string) (*entities.Contest, error)
	GetContest(ctx context.Context, contestID int64) (*entities.Contest, error)
}

// AccountService registers and reads accounts
type AccountService interface {
	Register(ctx context.Context, accountID, displayName string) (*entities.Account, error)
	GetAccount(ctx context.Context, accountID string) (*entities.Account, error)
}
