package entities

import "time"

// LeaderboardRow holds lifetime contest stats for one account in one group
type LeaderboardRow struct {
	GroupID        string    `db:"group_id"`
	AccountID      string    `db:"account_id"`
	DisplayName    string    `db:"-"`
	Wins           int64     `db:"wins"`
	PotTotal       int64     `db:"pot_total"`
	PotAvg         float64   `db:"pot_avg"`
	Participations int64     `db:"participations"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// WinRate returns wins divided by participations
func (r *LeaderboardRow) WinRate() float64 {
	if r.Participations == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Participations)
}

// LeaderboardDelta is an incremental change applied to a leaderboard row
type LeaderboardDelta struct {
	Wins           int64
	PotTotal       int64
	Participations int64
}

// IsZero returns true when the delta changes nothing
func (d LeaderboardDelta) IsZero() bool {
	return d.Wins == 0 && d.PotTotal == 0 && d.Participations == 0
}

// PayoutDelta computes the leaderboard change implied by a participation's payout
// moving from before to after. A nil before means the participation was not settled yet.
func PayoutDelta(before, after *int64) LeaderboardDelta {
	var d LeaderboardDelta
	if before == nil && after != nil {
		d.Participations = 1
	}
	if before != nil && after == nil {
		d.Participations = -1
	}
	b, a := int64(0), int64(0)
	if before != nil {
		b = *before
	}
	if after != nil {
		a = *after
	}
	d.PotTotal = a - b
	if b <= 0 && a > 0 {
		d.Wins = 1
	}
	if b > 0 && a <= 0 {
		d.Wins = -1
	}
	return d
}
