package entities

import (
	"sort"
	"time"
)

// ContestStatus represents the lifecycle state of a contest
type ContestStatus string

const (
	ContestStatusOpen           ContestStatus = "open"
	ContestStatusLive           ContestStatus = "live"
	ContestStatusAwaitingResult ContestStatus = "awaiting_result"
	ContestStatusCompleted      ContestStatus = "completed"
	ContestStatusCancelledGhost ContestStatus = "cancelled_ghost"
)

// IsTerminal returns true for statuses a contest never leaves
func (s ContestStatus) IsTerminal() bool {
	return s == ContestStatusCompleted || s == ContestStatusCancelledGhost
}

// IsValid returns true for known statuses
func (s ContestStatus) IsValid() bool {
	switch s {
	case ContestStatusOpen, ContestStatusLive, ContestStatusAwaitingResult,
		ContestStatusCompleted, ContestStatusCancelledGhost:
		return true
	}
	return false
}

// rank orders statuses along the lifecycle; both terminal states share the top rank
func (s ContestStatus) rank() int {
	switch s {
	case ContestStatusOpen:
		return 0
	case ContestStatusLive:
		return 1
	case ContestStatusAwaitingResult:
		return 2
	default:
		return 3
	}
}

// CanTransitionTo reports whether moving from s to next keeps the lifecycle monotonic
func (s ContestStatus) CanTransitionTo(next ContestStatus) bool {
	if s.IsTerminal() {
		return false
	}
	return next.rank() > s.rank()
}

// ActiveContestStatuses are the statuses scored by ingestion and eligible for settlement
var ActiveContestStatuses = []ContestStatus{
	ContestStatusOpen,
	ContestStatusLive,
	ContestStatusAwaitingResult,
}

// BonusRuleType identifies how a settlement bonus is chosen
type BonusRuleType string

const (
	BonusRuleRandom BonusRuleType = "random"
)

// BonusRule is an optional per-contest settlement bonus.
// For random rules the value is picked deterministically from Candidates.
type BonusRule struct {
	Type       BonusRuleType `json:"type"`
	Candidates []int64       `json:"candidates"`
}

// Contest is a time-boxed pick'em game tied to one date's games
type Contest struct {
	ID                int64            `db:"id"`
	GroupID           string           `db:"group_id"`
	Title             string           `db:"title"`
	Status            ContestStatus    `db:"status"`
	EntryCost         int64            `db:"entry_cost"`
	Pot               int64            `db:"pot"`
	ParticipantsCount int64            `db:"participants_count"`
	GameDate          time.Time        `db:"game_date"`
	StartsAt          time.Time        `db:"starts_at"`
	EndsAt            time.Time        `db:"ends_at"`
	SignupDeadline    time.Time        `db:"signup_deadline"`
	BonusRule         *BonusRule       `db:"bonus_rule"`
	BonusPerWinner    int64            `db:"bonus_per_winner"`
	Winners           []string         `db:"winners"`
	WinnerShares      map[string]int64 `db:"winner_shares"`
	GhostHandled      bool             `db:"ghost_handled"`
	SettledAt         *time.Time       `db:"settled_at"`
	CreatedBy         string           `db:"created_by"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
}

// IsOpen returns true if the contest accepts joins
func (c *Contest) IsOpen() bool {
	return c.Status == ContestStatusOpen
}

// IsCompleted returns true once the contest has been settled
func (c *Contest) IsCompleted() bool {
	return c.Status == ContestStatusCompleted
}

// IsTerminal returns true if no further transitions are possible
func (c *Contest) IsTerminal() bool {
	return c.Status.IsTerminal()
}

// HasBonus returns true if the contest declares a usable bonus rule
func (c *Contest) HasBonus() bool {
	return c.BonusRule != nil && c.BonusRule.Type == BonusRuleRandom && len(c.BonusRule.Candidates) > 0
}

// GameDay returns the contest's game date as YYYY-MM-DD
func (c *Contest) GameDay() string {
	return c.GameDate.Format(DayLayout)
}

// IsUnderSubscribed returns true if fewer than minParticipants have joined
func (c *Contest) IsUnderSubscribed(minParticipants int64) bool {
	return c.ParticipantsCount < minParticipants
}

// IsGhost returns true if the contest should be cancelled by the ghost canceller
func (c *Contest) IsGhost(now time.Time, minParticipants int64) bool {
	return c.Status == ContestStatusOpen &&
		!c.GhostHandled &&
		now.After(c.SignupDeadline) &&
		c.IsUnderSubscribed(minParticipants)
}

// NextStatus computes the status implied by the wall clock.
// Under-subscribed open contests past their signup deadline stay open so the
// ghost canceller can refund them.
func (c *Contest) NextStatus(now time.Time, minParticipants int64) ContestStatus {
	status := c.Status
	if status.IsTerminal() {
		return status
	}
	if status == ContestStatusOpen && !now.Before(c.StartsAt) {
		if !now.Before(c.SignupDeadline) && c.IsUnderSubscribed(minParticipants) {
			return status
		}
		status = ContestStatusLive
	}
	if status == ContestStatusLive && !now.Before(c.EndsAt) {
		status = ContestStatusAwaitingResult
	}
	return status
}

// IsDueForSettlement returns true if the game date is on or before yesterday
func (c *Contest) IsDueForSettlement(yesterday string) bool {
	return !c.Status.IsTerminal() && c.GameDay() <= yesterday
}

// Validate checks a contest definition before it is created
func (c *Contest) Validate() error {
	if c.GroupID == "" || c.EntryCost < 0 {
		return ErrInvalidContest
	}
	if c.EndsAt.Before(c.StartsAt) || c.SignupDeadline.After(c.StartsAt) {
		return ErrInvalidContest
	}
	if c.BonusRule != nil {
		if c.BonusRule.Type != BonusRuleRandom || len(c.BonusRule.Candidates) == 0 {
			return ErrInvalidContest
		}
		for _, v := range c.BonusRule.Candidates {
			if v < 0 {
				return ErrInvalidContest
			}
		}
	}
	return nil
}

// SortedWinners returns the winner ids in their settlement order
func (c *Contest) SortedWinners() []string {
	winners := append([]string(nil), c.Winners...)
	sort.Strings(winners)
	return winners
}
