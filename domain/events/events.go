package events

import "pickem/domain/entities"

// EventType represents different types of domain events
type EventType string

const (
	EventTypeBalanceChange        EventType = "balance_change"
	EventTypeContestCreated       EventType = "contest_created"
	EventTypeContestJoined        EventType = "contest_joined"
	EventTypeContestStatusChanged EventType = "contest_status_changed"
	EventTypeContestSettled       EventType = "contest_settled"
	EventTypeContestCancelled     EventType = "contest_cancelled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted for every applied ledger entry
type BalanceChangeEvent struct {
	AccountID      string                `json:"accountId"`
	IdempotencyKey string                `json:"idempotencyKey"`
	OldBalance     int64                 `json:"oldBalance"`
	NewBalance     int64                 `json:"newBalance"`
	ChangeAmount   int64                 `json:"changeAmount"`
	Source         entities.LedgerSource `json:"source"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// ContestCreatedEvent is emitted when a contest is created
type ContestCreatedEvent struct {
	ContestID  int64    `json:"contestId"`
	GroupID    string   `json:"groupId"`
	CreatedBy  string   `json:"createdBy"`
	Recipients []string `json:"recipients"`
}

func (e ContestCreatedEvent) Type() EventType {
	return EventTypeContestCreated
}

// ContestJoinedEvent is emitted when an account pays into a contest
type ContestJoinedEvent struct {
	ContestID int64  `json:"contestId"`
	AccountID string `json:"accountId"`
	EntryCost int64  `json:"entryCost"`
	Pot       int64  `json:"pot"`
}

func (e ContestJoinedEvent) Type() EventType {
	return EventTypeContestJoined
}

// ContestStatusChangedEvent is emitted on non-terminal lifecycle transitions
type ContestStatusChangedEvent struct {
	ContestID int64                  `json:"contestId"`
	OldStatus entities.ContestStatus `json:"oldStatus"`
	NewStatus entities.ContestStatus `json:"newStatus"`
}

func (e ContestStatusChangedEvent) Type() EventType {
	return EventTypeContestStatusChanged
}

// ContestSettledEvent is emitted once when a contest completes
type ContestSettledEvent struct {
	ContestID      int64            `json:"contestId"`
	GroupID        string           `json:"groupId"`
	Pot            int64            `json:"pot"`
	Winners        []string         `json:"winners"`
	WinnerShares   map[string]int64 `json:"winnerShares"`
	BonusPerWinner int64            `json:"bonusPerWinner"`
}

func (e ContestSettledEvent) Type() EventType {
	return EventTypeContestSettled
}

// ContestCancelledEvent is emitted when a ghost contest is cancelled and refunded
type ContestCancelledEvent struct {
	ContestID     int64    `json:"contestId"`
	GroupID       string   `json:"groupId"`
	RefundedTo    []string `json:"refundedTo"`
	RefundedTotal int64    `json:"refundedTotal"`
}

func (e ContestCancelledEvent) Type() EventType {
	return EventTypeContestCancelled
}
