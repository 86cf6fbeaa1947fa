package repository

import (
	"context"
	"testing"

	"pickem/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipationRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accounts := NewAccountRepository(testDB.DB)
	for _, id := range []string{"bob", "alice"} {
		_, err := accounts.Create(ctx, id, "")
		require.NoError(t, err)
	}
	contest := testutil.CreateTestContest("group-a", 2)
	require.NoError(t, NewContestRepository(testDB.DB).Create(ctx, contest))

	repo := NewParticipationRepository(testDB.DB)

	t.Run("upsert paid is idempotent per account", func(t *testing.T) {
		first, err := repo.UpsertPaid(ctx, contest.ID, "bob", []string{"p1"})
		require.NoError(t, err)
		assert.True(t, first.Paid)

		second, err := repo.UpsertPaid(ctx, contest.ID, "bob", []string{"p2", "p3"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, []string{"p2", "p3"}, second.Picks)
	})

	t.Run("missing participation", func(t *testing.T) {
		p, err := repo.GetForUpdate(ctx, contest.ID, "alice")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	alice, err := repo.UpsertPaid(ctx, contest.ID, "alice", []string{"p1"})
	require.NoError(t, err)

	t.Run("ordered by account id", func(t *testing.T) {
		all, err := repo.GetByContest(ctx, contest.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alice", all[0].AccountID)
		assert.Equal(t, "bob", all[1].AccountID)
	})

	t.Run("live points batch", func(t *testing.T) {
		bob, err := repo.GetForUpdate(ctx, contest.ID, "bob")
		require.NoError(t, err)

		require.NoError(t, repo.UpdateLivePoints(ctx, map[int64]int64{alice.ID: 30, bob.ID: 15}))
		require.NoError(t, repo.UpdateLivePoints(ctx, nil))

		all, err := repo.GetByContest(ctx, contest.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(30), all[0].LivePoints)
		assert.Equal(t, int64(15), all[1].LivePoints)
	})

	t.Run("picks and final values", func(t *testing.T) {
		require.NoError(t, repo.UpdatePicks(ctx, alice.ID, []string{"p9"}))
		require.NoError(t, repo.SetFinal(ctx, alice.ID, 30, 4, 1))

		p, err := repo.GetForUpdate(ctx, contest.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"p9"}, p.Picks)
		assert.True(t, p.IsSettled())
		assert.Equal(t, int64(30), *p.FinalPoints)
		assert.Equal(t, int64(4), p.PayoutAmount())
		assert.Equal(t, int64(1), p.BonusAmount())
	})
}

func TestLiveStatsRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	contest := testutil.CreateTestContest("group-a", 0)
	require.NoError(t, NewContestRepository(testDB.DB).Create(ctx, contest))

	repo := NewLiveStatsRepository(testDB.DB)

	snapshot, err := repo.GetByContest(ctx, contest.ID)
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	first := testutil.CreateTestSnapshot(contest.ID, map[string]int64{"8478402": 20, "8477492": 10})
	first.GamesFetched = 2
	require.NoError(t, repo.Replace(ctx, first))

	second := testutil.CreateTestSnapshot(contest.ID, map[string]int64{"8478402": 30})
	second.GamesFetched = 2
	second.GamesFailed = 1
	require.NoError(t, repo.Replace(ctx, second))

	stored, err := repo.GetByContest(ctx, contest.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, map[string]int64{"8478402": 30}, stored.Points)
	assert.Equal(t, int64(3), stored.Goals["8478402"])
	assert.Equal(t, 1, stored.GamesFailed)
	assert.Equal(t, int64(30), stored.PointsFor([]string{"8478402", "8477492"}))
}
