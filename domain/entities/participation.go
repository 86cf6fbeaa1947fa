package entities

import "time"

// Participation is one account's entry in a contest
type Participation struct {
	ID          int64     `db:"id"`
	ContestID   int64     `db:"contest_id"`
	AccountID   string    `db:"account_id"`
	Picks       []string  `db:"picks"`
	Paid        bool      `db:"paid"`
	LivePoints  int64     `db:"live_points"`  // tenths of a point
	FinalPoints *int64    `db:"final_points"` // set once at settlement
	Payout      *int64    `db:"payout"`       // pot share, set once at settlement
	Bonus       *int64    `db:"bonus"`        // bonus credited on top of the payout
	JoinedAt    time.Time `db:"joined_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// IsSettled returns true once final points have been frozen
func (p *Participation) IsSettled() bool {
	return p.FinalPoints != nil
}

// PayoutAmount returns the payout or zero when unsettled
func (p *Participation) PayoutAmount() int64 {
	if p.Payout == nil {
		return 0
	}
	return *p.Payout
}

// BonusAmount returns the bonus or zero when unsettled
func (p *Participation) BonusAmount() int64 {
	if p.Bonus == nil {
		return 0
	}
	return *p.Bonus
}

// ValidatePicks rejects empty or duplicated pick sets
func ValidatePicks(picks []string) error {
	if len(picks) == 0 {
		return ErrInvalidPicks
	}
	seen := make(map[string]struct{}, len(picks))
	for _, p := range picks {
		if p == "" {
			return ErrInvalidPicks
		}
		if _, dup := seen[p]; dup {
			return ErrInvalidPicks
		}
		seen[p] = struct{}{}
	}
	return nil
}
