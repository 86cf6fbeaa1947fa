package utils

import (
	"fmt"
	"strings"
)

// Idempotency key builders. Every money-moving operation derives its key from its
// own identity so a replay lands on the same key.

// PurchaseKey keys a purchase grant by the provider's event id
func PurchaseKey(eventID string) string {
	return fmt.Sprintf("purchase:%s", eventID)
}

// DailyBonusKey keys a daily bonus by account and canonical day
func DailyBonusKey(accountID, day string) string {
	return fmt.Sprintf("daily:%s:%s", accountID, day)
}

// DailyBonusMonthPrefix is the key prefix shared by all daily bonus keys of one canonical month
func DailyBonusMonthPrefix(accountID, month string) string {
	return fmt.Sprintf("daily:%s:%s-", accountID, month)
}

// EntryKey keys the entry fee debit of a contest join
func EntryKey(contestID int64, accountID string) string {
	return fmt.Sprintf("entry:%d:%s", contestID, accountID)
}

// PayoutKey keys a settlement payout
func PayoutKey(contestID int64, accountID string) string {
	return fmt.Sprintf("payout:%d:%s", contestID, accountID)
}

// RefundKey keys a ghost-contest refund
func RefundKey(contestID int64, accountID string) string {
	return fmt.Sprintf("refund:%d:%s", contestID, accountID)
}

// KeyReason returns the reason segment of a key
func KeyReason(key string) string {
	reason, _, _ := strings.Cut(key, ":")
	return reason
}
