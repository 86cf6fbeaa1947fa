package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalDayHelpers(t *testing.T) {
	t.Parallel()

	ny, err := LoadCanonicalLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC on March 1st is still February 28th in New York
	instant := time.Date(2025, 3, 1, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-02-28", CanonicalDay(instant, ny))
	assert.Equal(t, "2025-03-01", CanonicalDay(instant, time.UTC))
	assert.Equal(t, "2025-02", CanonicalMonth(instant, ny))
	assert.Equal(t, "2025-02-27", Yesterday(instant, ny))
	assert.Equal(t, "2025-03-01", NextDay(instant, ny))
	assert.Equal(t, "2025-03-01", FirstDayOfNextMonth(instant, ny))
}

func TestLoadCanonicalLocation(t *testing.T) {
	t.Parallel()

	loc, err := LoadCanonicalLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadCanonicalLocation("Not/AZone")
	assert.Error(t, err)
}

func TestIdempotencyKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "entry:42:alice", EntryKey(42, "alice"))
	assert.Equal(t, "payout:42:alice", PayoutKey(42, "alice"))
	assert.Equal(t, "refund:42:alice", RefundKey(42, "alice"))
	assert.Equal(t, "purchase:evt_1", PurchaseKey("evt_1"))
	assert.Equal(t, "daily:alice:2025-02-28", DailyBonusKey("alice", "2025-02-28"))
	assert.Equal(t, "daily:alice:2025-02-", DailyBonusMonthPrefix("alice", "2025-02"))
	assert.Equal(t, "payout", KeyReason(PayoutKey(1, "bob")))
}
