package entities

import (
	"fmt"
	"time"
)

// PointsScale is the fixed-point factor for live points (tenths)
const PointsScale int64 = 10

// FormatPoints renders a tenths value with one decimal
func FormatPoints(tenths int64) string {
	sign := ""
	if tenths < 0 {
		sign = "-"
		tenths = -tenths
	}
	return fmt.Sprintf("%s%d.%d", sign, tenths/PointsScale, tenths%PointsScale)
}

// LiveStatsSnapshot holds per-entity tallies derived from one ingestion pass.
// It is a pure function of the feed data and is replaced wholesale each pass.
type LiveStatsSnapshot struct {
	ContestID    int64            `db:"contest_id"`
	Goals        map[string]int64 `db:"goals"`
	Assists      map[string]int64 `db:"assists"`
	Points       map[string]int64 `db:"points"` // tenths
	GamesFetched int              `db:"games_fetched"`
	GamesFailed  int              `db:"games_failed"`
	UpdatedAt    time.Time        `db:"updated_at"`
}

// NewLiveStatsSnapshot creates an empty snapshot for a contest
func NewLiveStatsSnapshot(contestID int64) *LiveStatsSnapshot {
	return &LiveStatsSnapshot{
		ContestID: contestID,
		Goals:     make(map[string]int64),
		Assists:   make(map[string]int64),
		Points:    make(map[string]int64),
	}
}

// PointsFor sums the snapshot points of every pick
func (s *LiveStatsSnapshot) PointsFor(picks []string) int64 {
	var total int64
	for _, pick := range picks {
		total += s.Points[pick]
	}
	return total
}

// ScoringWeights are the point values, in tenths, of each scoring role
type ScoringWeights struct {
	GoalPoints   int64 `yaml:"goal_points"`
	AssistPoints int64 `yaml:"assist_points"`
}

// DefaultScoringWeights counts goals and assists as one point each
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{GoalPoints: PointsScale, AssistPoints: PointsScale}
}
