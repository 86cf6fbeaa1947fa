package repository

import (
	"context"
	"testing"

	"pickem/domain/entities"
	"pickem/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardRepository_ApplyDelta(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	_, err := NewAccountRepository(testDB.DB).Create(ctx, "alice", "")
	require.NoError(t, err)

	repo := NewLeaderboardRepository(testDB.DB)

	require.NoError(t, repo.ApplyDelta(ctx, "group-a", "alice", entities.LeaderboardDelta{Wins: 1, PotTotal: 6, Participations: 1}))
	require.NoError(t, repo.ApplyDelta(ctx, "group-a", "alice", entities.LeaderboardDelta{Participations: 1}))

	rows, err := repo.GetByGroup(ctx, "group-a", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].Wins)
	assert.Equal(t, int64(6), rows[0].PotTotal)
	assert.Equal(t, int64(2), rows[0].Participations)
	assert.InDelta(t, 3.0, rows[0].PotAvg, 0.0001)
}

func TestLeaderboardRepository_AggregateAndReplace(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := NewAccountRepository(testDB.DB).Create(ctx, id, "")
		require.NoError(t, err)
	}

	contests := NewContestRepository(testDB.DB)
	participations := NewParticipationRepository(testDB.DB)

	settle := func(groupID string, payouts map[string]int64) {
		contest := testutil.CreateTestContest(groupID, 1)
		require.NoError(t, contests.Create(ctx, contest))
		for accountID, payout := range payouts {
			p, err := participations.UpsertPaid(ctx, contest.ID, accountID, []string{"p1"})
			require.NoError(t, err)
			require.NoError(t, participations.SetFinal(ctx, p.ID, 0, payout, 0))
		}
		updated, err := contests.MarkSettled(ctx, contest)
		require.NoError(t, err)
		require.True(t, updated)
	}

	settle("group-a", map[string]int64{"alice": 4, "bob": 0})
	settle("group-a", map[string]int64{"alice": 1, "bob": 1, "carol": 0})
	settle("group-b", map[string]int64{"carol": 9})

	// Open contests are ignored
	open := testutil.CreateTestContest("group-a", 1)
	require.NoError(t, contests.Create(ctx, open))
	_, err := participations.UpsertPaid(ctx, open.ID, "carol", []string{"p1"})
	require.NoError(t, err)

	repo := NewLeaderboardRepository(testDB.DB)
	aggregated, err := repo.AggregateGroup(ctx, "group-a")
	require.NoError(t, err)
	require.Len(t, aggregated, 3)

	byAccount := make(map[string]*entities.LeaderboardRow)
	for _, row := range aggregated {
		byAccount[row.AccountID] = row
	}
	assert.Equal(t, int64(2), byAccount["alice"].Wins)
	assert.Equal(t, int64(5), byAccount["alice"].PotTotal)
	assert.Equal(t, int64(1), byAccount["bob"].Wins)
	assert.Equal(t, int64(2), byAccount["bob"].Participations)
	assert.Equal(t, int64(0), byAccount["carol"].Wins)
	assert.Equal(t, int64(1), byAccount["carol"].Participations)

	// Stale rows are replaced wholesale
	require.NoError(t, repo.ApplyDelta(ctx, "group-a", "alice", entities.LeaderboardDelta{Wins: 10}))
	tx, err := testDB.DB.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, NewLeaderboardRepository(tx).ReplaceGroup(ctx, "group-a", aggregated))
	require.NoError(t, tx.Commit(ctx))

	rows, err := repo.GetByGroup(ctx, "group-a", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].AccountID)
	assert.Equal(t, int64(2), rows[0].Wins)
	assert.Equal(t, "bob", rows[1].AccountID)

	other, err := repo.GetByGroup(ctx, "group-b", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}
