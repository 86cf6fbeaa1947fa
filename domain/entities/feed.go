package entities

import "fmt"

// DayLayout is the format of canonical calendar days
const DayLayout = "2006-01-02"

// ShootoutPeriod marks the tie-breaking extra period whose events don't count
const ShootoutPeriod = "SO"

// ScheduledGame is one game from the external schedule feed
type ScheduledGame struct {
	ID        int64  `json:"id"`
	GameDate  string `json:"gameDate"`
	GameState string `json:"gameState"`
}

// IsFinal returns true if the provider reports the game as finished
func (g ScheduledGame) IsFinal() bool {
	return g.GameState == "FINAL" || g.GameState == "OFF"
}

// ScoringEvent is a normalized goal event from a game's event feed
type ScoringEvent struct {
	GameID     int64    `json:"gameId"`
	EventID    int64    `json:"eventId"`
	PeriodType string   `json:"periodType"`
	ScorerID   string   `json:"scorerId"`
	AssistIDs  []string `json:"assistIds"`
}

// CountsTowardScore returns false for events in the tie-breaking period
func (e ScoringEvent) CountsTowardScore() bool {
	return e.PeriodType != ShootoutPeriod
}

// FetchErrorKind classifies feed failures
type FetchErrorKind string

const (
	FetchErrorTransient FetchErrorKind = "transient"
	FetchErrorMalformed FetchErrorKind = "malformed"
	FetchErrorRejected  FetchErrorKind = "rejected"
)

// FetchError is returned by feed calls that could not produce data.
// Callers skip the affected contest or game for the current cycle.
type FetchError struct {
	Kind     FetchErrorKind
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch error for %s: %v", e.Kind, e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
