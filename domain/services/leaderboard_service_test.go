package services

import (
	"context"
	"errors"
	"testing"

	"pickem/domain/entities"
	"pickem/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardService_ApplyPayoutDelta(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockRepo := new(testhelpers.MockLeaderboardRepository)
	service := NewLeaderboardService(mockRepo, nil)

	mockRepo.On("ApplyDelta", ctx, "g1", "a", entities.LeaderboardDelta{Wins: 1, PotTotal: 7, Participations: 1}).Return(nil)

	require.NoError(t, service.ApplyPayoutDelta(ctx, "g1", "a", nil, int64Ptr(7)))
	// Rewriting the same payout changes nothing
	require.NoError(t, service.ApplyPayoutDelta(ctx, "g1", "a", int64Ptr(7), int64Ptr(7)))

	mockRepo.AssertNumberOfCalls(t, "ApplyDelta", 1)
}

func TestLeaderboardService_Rebuild(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockRepo := new(testhelpers.MockLeaderboardRepository)
	service := NewLeaderboardService(mockRepo, nil)

	rows := []*entities.LeaderboardRow{
		{GroupID: "g1", AccountID: "a", Wins: 2, PotTotal: 9, Participations: 3},
		{GroupID: "g1", AccountID: "b", Wins: 0, PotTotal: 0, Participations: 3},
	}
	mockRepo.On("AggregateGroup", ctx, "g1").Return(rows, nil)
	mockRepo.On("ReplaceGroup", ctx, "g1", rows).Return(nil)

	n, err := service.Rebuild(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	mockRepo.AssertExpectations(t)
}

func TestLeaderboardService_Get_FillsDisplayNames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockRepo := new(testhelpers.MockLeaderboardRepository)
	mockProfiles := new(testhelpers.MockProfileLookup)
	service := NewLeaderboardService(mockRepo, mockProfiles)

	mockRepo.On("GetByGroup", ctx, "g1", 50).Return([]*entities.LeaderboardRow{
		{AccountID: "a", Wins: 2},
		{AccountID: "b", Wins: 1},
	}, nil)
	mockProfiles.On("GetDisplayNames", ctx, []string{"a", "b"}).Return(map[string]string{"a": "Alice"}, nil)

	rows, err := service.Get(ctx, "g1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].DisplayName)
	assert.Equal(t, "", rows[1].DisplayName)
}

func TestLeaderboardService_Get_LookupFailureStillReturnsRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockRepo := new(testhelpers.MockLeaderboardRepository)
	mockProfiles := new(testhelpers.MockProfileLookup)
	service := NewLeaderboardService(mockRepo, mockProfiles)

	mockRepo.On("GetByGroup", ctx, "g1", 10).Return([]*entities.LeaderboardRow{{AccountID: "a"}}, nil)
	mockProfiles.On("GetDisplayNames", ctx, mock.Anything).Return(nil, errors.New("profile service down"))

	rows, err := service.Get(ctx, "g1", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
