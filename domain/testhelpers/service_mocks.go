package testhelpers

import (
	"context"

	"pickem/domain/entities"
	"pickem/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockSportsFeed is a mock implementation of SportsFeed
type MockSportsFeed struct {
	mock.Mock
}

func (m *MockSportsFeed) GetSchedule(ctx context.Context, day string) ([]entities.ScheduledGame, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ScheduledGame), args.Error(1)
}

func (m *MockSportsFeed) GetScoringEvents(ctx context.Context, gameID int64) ([]entities.ScoringEvent, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ScoringEvent), args.Error(1)
}

// MockContestNotifier is a mock implementation of ContestNotifier
type MockContestNotifier struct {
	mock.Mock
}

func (m *MockContestNotifier) NotifyContestCreated(ctx context.Context, contestID int64, recipients []string) error {
	args := m.Called(ctx, contestID, recipients)
	return args.Error(0)
}

// MockProfileLookup is a mock implementation of ProfileLookup
type MockProfileLookup struct {
	mock.Mock
}

func (m *MockProfileLookup) GetDisplayNames(ctx context.Context, accountIDs []string) (map[string]string, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Grant(ctx context.Context, accountID string, amount int64, key string, source entities.LedgerSource, meta map[string]any) (*entities.GrantResult, error) {
	args := m.Called(ctx, accountID, amount, key, source, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GrantResult), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, accountID string, amount int64, key string, source entities.LedgerSource, meta map[string]any) (*entities.GrantResult, error) {
	args := m.Called(ctx, accountID, amount, key, source, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GrantResult), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) Reconcile(ctx context.Context, accountID string) (*interfaces.BalanceReconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.BalanceReconciliation), args.Error(1)
}

// MockLeaderboardService is a mock implementation of LeaderboardService
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Rebuild(ctx context.Context, groupID string) (int, error) {
	args := m.Called(ctx, groupID)
	return args.Int(0), args.Error(1)
}

func (m *MockLeaderboardService) ApplyPayoutDelta(ctx context.Context, groupID, accountID string, before, after *int64) error {
	args := m.Called(ctx, groupID, accountID, before, after)
	return args.Error(0)
}

func (m *MockLeaderboardService) Get(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error) {
	args := m.Called(ctx, groupID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LeaderboardRow), args.Error(1)
}

// MockSettlementService is a mock implementation of SettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, contestID int64) (*interfaces.SettlementResult, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SettlementResult), args.Error(1)
}
