package entities

import "time"

// Account holds a user's credit balance and achievement counters.
// Balance is only ever changed through ledger entries.
type Account struct {
	ID                     string    `db:"id"`
	DisplayName            string    `db:"display_name"`
	Balance                int64     `db:"balance"`
	LifetimeParticipations int64     `db:"lifetime_participations"`
	CurrentStreak          int64     `db:"current_streak"`
	LongestStreak          int64     `db:"longest_streak"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

// CanAfford checks if the account balance covers an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Balance + changeAmount
}
