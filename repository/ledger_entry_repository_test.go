package repository

import (
	"context"
	"testing"

	"pickem/domain/entities"
	"pickem/domain/utils"
	"pickem/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEntryRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	_, err := NewAccountRepository(testDB.DB).Create(ctx, "alice", "")
	require.NoError(t, err)

	repo := NewLedgerEntryRepository(testDB.DB)

	entry := &entities.LedgerEntry{
		AccountID:      "alice",
		IdempotencyKey: utils.PurchaseKey("evt-1"),
		Amount:         20,
		Source:         entities.LedgerSourcePurchase,
		FromBalance:    0,
		ToBalance:      20,
		Metadata:       map[string]any{"product_key": "credits_20"},
	}

	inserted, err := repo.Create(ctx, entry)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, entry.ID)

	t.Run("same key inserts nothing", func(t *testing.T) {
		duplicate := *entry
		duplicate.ID = 0
		duplicate.Amount = 50

		inserted, err := repo.Create(ctx, &duplicate)
		require.NoError(t, err)
		assert.False(t, inserted)

		stored, err := repo.GetByIdempotencyKey(ctx, entry.IdempotencyKey)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(20), stored.Amount)
		assert.Equal(t, "credits_20", stored.Metadata["product_key"])
	})

	t.Run("unknown key", func(t *testing.T) {
		stored, err := repo.GetByIdempotencyKey(ctx, "purchase:nope")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("nil metadata is stored as an empty object", func(t *testing.T) {
		e := &entities.LedgerEntry{
			AccountID:      "alice",
			IdempotencyKey: "adjustment:nil-meta",
			Amount:         1,
			Source:         entities.LedgerSourceAdjustment,
			FromBalance:    20,
			ToBalance:      21,
		}
		inserted, err := repo.Create(ctx, e)
		require.NoError(t, err)
		require.True(t, inserted)

		stored, err := repo.GetByIdempotencyKey(ctx, e.IdempotencyKey)
		require.NoError(t, err)
		assert.Empty(t, stored.Metadata)
	})
}

func TestLedgerEntryRepository_Aggregates(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	// Underscores in the id must not act as LIKE wildcards
	const accountID = "user_1"
	_, err := NewAccountRepository(testDB.DB).Create(ctx, accountID, "")
	require.NoError(t, err)

	repo := NewLedgerEntryRepository(testDB.DB)
	write := func(account, key string, amount int64, source entities.LedgerSource) {
		_, err := repo.Create(ctx, &entities.LedgerEntry{
			AccountID:      account,
			IdempotencyKey: key,
			Amount:         amount,
			Source:         source,
			ToBalance:      100,
		})
		require.NoError(t, err)
	}

	write(accountID, utils.DailyBonusKey(accountID, "2026-10-01"), 1, entities.LedgerSourceDailyBonus)
	write(accountID, utils.DailyBonusKey(accountID, "2026-10-02"), 1, entities.LedgerSourceDailyBonus)
	write(accountID, utils.DailyBonusKey(accountID, "2026-09-30"), 1, entities.LedgerSourceDailyBonus)
	write(accountID, utils.EntryKey(7, accountID), -3, entities.LedgerSourceContestEntry)
	write(accountID, "daily:userX1:2026-10-03", 1, entities.LedgerSourceDailyBonus)

	t.Run("count by month prefix", func(t *testing.T) {
		count, err := repo.CountByKeyPrefix(ctx, accountID, entities.LedgerSourceDailyBonus,
			utils.DailyBonusMonthPrefix(accountID, "2026-10"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.CountByKeyPrefix(ctx, accountID, entities.LedgerSourceContestEntry, "daily:")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("sum", func(t *testing.T) {
		sum, err := repo.SumByAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), sum)

		sum, err = repo.SumByAccount(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("history newest first", func(t *testing.T) {
		entries, err := repo.GetByAccount(ctx, accountID, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "daily:userX1:2026-10-03", entries[0].IdempotencyKey)
		assert.Equal(t, utils.EntryKey(7, accountID), entries[1].IdempotencyKey)
		assert.True(t, entries[1].IsDebit())
	})
}
