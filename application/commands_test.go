package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"pickem/config"
	"pickem/domain/entities"
	"pickem/domain/interfaces"
	"pickem/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCommands(uow *mockUnitOfWork, notifier *testhelpers.MockContestNotifier) *Commands {
	loc, _ := time.LoadLocation("America/New_York")
	var n interfaces.ContestNotifier
	if notifier != nil {
		n = notifier
	}
	cmds := NewCommands(uow, n, config.DefaultPolicy(), loc)
	cmds.now = fixedClock(workerNow)
	return cmds
}

func TestCommands_CreateContest_NotifiesAfterCommit(t *testing.T) {
	uow := newMockUnitOfWork()
	notifier := new(testhelpers.MockContestNotifier)
	cmds := newTestCommands(uow, notifier)

	// 23:30 UTC on the 17th is the evening of the 17th in New York
	starts := time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC)

	uow.contests.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Contest) bool {
		return c.GameDay() == "2026-10-17" &&
			c.SignupDeadline.Equal(starts) &&
			c.HasBonus() &&
			len(c.BonusRule.Candidates) == 5
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Contest).ID = 11
	})
	uow.publisher.On("Publish", mock.Anything).Return(nil)
	notifier.On("NotifyContestCreated", mock.Anything, int64(11), []string{"bob", "carol"}).Return(nil).Run(func(mock.Arguments) {
		assert.Equal(t, 1, uow.commits(), "notification must follow the commit")
	})

	contest, err := cmds.CreateContest(context.Background(), CreateContestRequest{
		GroupID:     "g1",
		Title:       "Friday slate",
		CreatedBy:   "alice",
		EntryCost:   2,
		StartsAt:    starts,
		EndsAt:      starts.Add(4 * time.Hour),
		RandomBonus: true,
		Invitees:    []string{"bob", "carol"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), contest.ID)
	assert.Equal(t, entities.ContestStatusOpen, contest.Status)
	notifier.AssertExpectations(t)
}

func TestCommands_CreateContest_NotifierFailureIsNotFatal(t *testing.T) {
	uow := newMockUnitOfWork()
	notifier := new(testhelpers.MockContestNotifier)
	cmds := newTestCommands(uow, notifier)
	starts := workerNow.Add(time.Hour)

	uow.contests.On("Create", mock.Anything, mock.Anything).Return(nil)
	uow.publisher.On("Publish", mock.Anything).Return(nil)
	notifier.On("NotifyContestCreated", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	contest, err := cmds.CreateContest(context.Background(), CreateContestRequest{
		GroupID:  "g1",
		StartsAt: starts,
		EndsAt:   starts.Add(time.Hour),
		Invitees: []string{"bob"},
	})

	require.NoError(t, err)
	assert.Nil(t, contest.BonusRule)
}

func TestCommands_CreateContest_RejectsMissingTimes(t *testing.T) {
	uow := newMockUnitOfWork()
	cmds := newTestCommands(uow, nil)

	_, err := cmds.CreateContest(context.Background(), CreateContestRequest{GroupID: "g1"})

	assert.ErrorIs(t, err, entities.ErrInvalidContest)
	assert.Equal(t, 0, uow.began)
}

func TestCommands_HandlePurchase_UnknownProductRollsBack(t *testing.T) {
	uow := newMockUnitOfWork()
	cmds := newTestCommands(uow, nil)

	_, err := cmds.HandlePurchase(context.Background(), &entities.PurchaseEvent{
		EventID:    "evt-1",
		AccountID:  "alice",
		ProductKey: "credits_9000",
		Provider:   "stripe",
	})

	assert.ErrorIs(t, err, entities.ErrInvalidProduct)
	assert.Equal(t, 0, uow.commits())
	assert.Equal(t, 1, uow.rollbacks)
}

func TestCommands_JoinContest_BeginFailure(t *testing.T) {
	uow := newMockUnitOfWork()
	uow.beginErr = errors.New("pool exhausted")
	cmds := newTestCommands(uow, nil)

	_, err := cmds.JoinContest(context.Background(), 1, "alice", []string{"p1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, uow.beginErr)
}

func TestCommands_GetContest_NotFound(t *testing.T) {
	uow := newMockUnitOfWork()
	uow.contests.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	_, err := newTestCommands(uow, nil).GetContest(context.Background(), 404)

	assert.ErrorIs(t, err, entities.ErrContestNotFound)
}

func TestCommands_GetContest_IncludesEntrantsAndStats(t *testing.T) {
	uow := newMockUnitOfWork()
	contest := &entities.Contest{ID: 5, GroupID: "g1", Status: entities.ContestStatusLive}
	snapshot := entities.NewLiveStatsSnapshot(5)
	snapshot.Points["p1"] = 20

	uow.contests.On("GetByID", mock.Anything, int64(5)).Return(contest, nil)
	uow.participations.On("GetByContest", mock.Anything, int64(5)).Return([]*entities.Participation{
		{ID: 1, ContestID: 5, AccountID: "alice", Picks: []string{"p1"}, LivePoints: 20},
	}, nil)
	uow.liveStats.On("GetByContest", mock.Anything, int64(5)).Return(snapshot, nil)

	view, err := newTestCommands(uow, nil).GetContest(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, contest, view.Contest)
	assert.Len(t, view.Participations, 1)
	assert.Equal(t, int64(20), view.Snapshot.Points["p1"])
	assert.Equal(t, 0, uow.commits())
}

func TestCommands_GetAccount(t *testing.T) {
	uow := newMockUnitOfWork()
	account := &entities.Account{ID: "alice", Balance: 7}
	entries := []*entities.LedgerEntry{{AccountID: "alice", Amount: 7, IdempotencyKey: "purchase:evt-1"}}

	uow.accounts.On("GetByID", mock.Anything, "alice").Return(account, nil)
	uow.ledger.On("GetByAccount", mock.Anything, "alice", defaultHistoryLimit).Return(entries, nil)
	uow.ledger.On("SumByAccount", mock.Anything, "alice").Return(int64(7), nil)

	view, err := newTestCommands(uow, nil).GetAccount(context.Background(), "alice", 0)

	require.NoError(t, err)
	assert.Equal(t, int64(7), view.Account.Balance)
	assert.Len(t, view.RecentEntries, 1)
	assert.True(t, view.Reconciliation.IsConsistent)
}

func TestCommands_GetLeaderboard(t *testing.T) {
	uow := newMockUnitOfWork()
	uow.leaderboard.On("GetByGroup", mock.Anything, "g1", 10).Return([]*entities.LeaderboardRow{
		{GroupID: "g1", AccountID: "alice", Wins: 2},
	}, nil)
	uow.accounts.On("GetDisplayNames", mock.Anything, []string{"alice"}).Return(map[string]string{"alice": "Alice"}, nil)

	rows, err := newTestCommands(uow, nil).GetLeaderboard(context.Background(), "g1", 10)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].DisplayName)
}
