package entities

import "time"

// LedgerSource is the reason a ledger entry was written
type LedgerSource string

const (
	LedgerSourcePurchase      LedgerSource = "purchase"
	LedgerSourceDailyBonus    LedgerSource = "daily_bonus"
	LedgerSourceContestEntry  LedgerSource = "contest_entry"
	LedgerSourceContestPayout LedgerSource = "contest_payout"
	LedgerSourceContestRefund LedgerSource = "contest_refund"
	LedgerSourceAdjustment    LedgerSource = "adjustment"
)

// IsValid returns true for the sources the ledger accepts
func (s LedgerSource) IsValid() bool {
	switch s {
	case LedgerSourcePurchase, LedgerSourceDailyBonus, LedgerSourceContestEntry,
		LedgerSourceContestPayout, LedgerSourceContestRefund, LedgerSourceAdjustment:
		return true
	}
	return false
}

// IsContestRelated returns true if the entry moved credits into or out of a contest pot
func (s LedgerSource) IsContestRelated() bool {
	return s == LedgerSourceContestEntry ||
		s == LedgerSourceContestPayout ||
		s == LedgerSourceContestRefund
}

// LedgerEntry is an immutable record of one balance change.
// At most one entry exists per idempotency key.
type LedgerEntry struct {
	ID             int64          `db:"id"`
	AccountID      string         `db:"account_id"`
	IdempotencyKey string         `db:"idempotency_key"`
	Amount         int64          `db:"amount"`
	Source         LedgerSource   `db:"source"`
	FromBalance    int64          `db:"from_balance"`
	ToBalance      int64          `db:"to_balance"`
	Metadata       map[string]any `db:"metadata"`
	CreatedAt      time.Time      `db:"created_at"`
}

// IsCredit returns true if the entry increased the balance
func (e *LedgerEntry) IsCredit() bool {
	return e.Amount > 0
}

// IsDebit returns true if the entry decreased the balance
func (e *LedgerEntry) IsDebit() bool {
	return e.Amount < 0
}

// GrantResult reports the outcome of a keyed ledger call.
// Applied is false when the key had already been used.
type GrantResult struct {
	Applied     bool
	FromBalance int64
	ToBalance   int64
	Entry       *LedgerEntry
}
