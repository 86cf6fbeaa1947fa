package interfaces

import (
	"context"

	"pickem/domain/entities"
	"pickem/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding transaction commits
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// SportsFeed is the external schedule and event-feed provider.
// Failures are returned as *entities.FetchError.
type SportsFeed interface {
	// GetSchedule returns the games played on a calendar day (YYYY-MM-DD)
	GetSchedule(ctx context.Context, day string) ([]entities.ScheduledGame, error)

	// GetScoringEvents returns the goal events of one game
	GetScoringEvents(ctx context.Context, gameID int64) ([]entities.ScoringEvent, error)
}

// ContestNotifier fans out contest creation to invited recipients
type ContestNotifier interface {
	NotifyContestCreated(ctx context.Context, contestID int64, recipients []string) error
}

// ProfileLookup resolves display names for read-only views
type ProfileLookup interface {
	GetDisplayNames(ctx context.Context, accountIDs []string) (map[string]string, error)
}
