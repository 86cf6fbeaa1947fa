package testhelpers

import (
	"context"
	"time"

	"pickem/domain/entities"
	"pickem/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, accountID string) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, accountID string) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, accountID, displayName string) (*entities.Account, error) {
	args := m.Called(ctx, accountID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance int64) error {
	args := m.Called(ctx, accountID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) IncrementParticipations(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) GetDisplayNames(ctx context.Context, accountIDs []string) (map[string]string, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) Create(ctx context.Context, entry *entities.LedgerEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerEntryRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumByAccount(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerEntryRepository) CountByKeyPrefix(ctx context.Context, accountID string, source entities.LedgerSource, prefix string) (int64, error) {
	args := m.Called(ctx, accountID, source, prefix)
	return args.Get(0).(int64), args.Error(1)
}

// MockContestRepository is a mock implementation of ContestRepository
type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) Create(ctx context.Context, contest *entities.Contest) error {
	args := m.Called(ctx, contest)
	return args.Error(0)
}

func (m *MockContestRepository) GetByID(ctx context.Context, id int64) (*entities.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contest), args.Error(1)
}

func (m *MockContestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contest), args.Error(1)
}

func (m *MockContestRepository) GetByStatuses(ctx context.Context, statuses []entities.ContestStatus) ([]*entities.Contest, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Contest), args.Error(1)
}

func (m *MockContestRepository) GetDueForSettlement(ctx context.Context, onOrBefore string) ([]*entities.Contest, error) {
	args := m.Called(ctx, onOrBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Contest), args.Error(1)
}

func (m *MockContestRepository) GetGhostCandidates(ctx context.Context, now time.Time, minParticipants int64) ([]*entities.Contest, error) {
	args := m.Called(ctx, now, minParticipants)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Contest), args.Error(1)
}

func (m *MockContestRepository) IncrementPotAndCount(ctx context.Context, id int64, amount int64) (int64, bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockContestRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.ContestStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockContestRepository) MarkSettled(ctx context.Context, contest *entities.Contest) (bool, error) {
	args := m.Called(ctx, contest)
	return args.Bool(0), args.Error(1)
}

func (m *MockContestRepository) MarkGhostCancelled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContestRepository) GetGroupsWithCompletedContests(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockParticipationRepository is a mock implementation of ParticipationRepository
type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) GetForUpdate(ctx context.Context, contestID int64, accountID string) (*entities.Participation, error) {
	args := m.Called(ctx, contestID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Participation), args.Error(1)
}

func (m *MockParticipationRepository) UpsertPaid(ctx context.Context, contestID int64, accountID string, picks []string) (*entities.Participation, error) {
	args := m.Called(ctx, contestID, accountID, picks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Participation), args.Error(1)
}

func (m *MockParticipationRepository) UpdatePicks(ctx context.Context, id int64, picks []string) error {
	args := m.Called(ctx, id, picks)
	return args.Error(0)
}

func (m *MockParticipationRepository) GetByContest(ctx context.Context, contestID int64) ([]*entities.Participation, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Participation), args.Error(1)
}

func (m *MockParticipationRepository) UpdateLivePoints(ctx context.Context, points map[int64]int64) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *MockParticipationRepository) SetFinal(ctx context.Context, id int64, finalPoints, payout, bonus int64) error {
	args := m.Called(ctx, id, finalPoints, payout, bonus)
	return args.Error(0)
}

// MockLiveStatsRepository is a mock implementation of LiveStatsRepository
type MockLiveStatsRepository struct {
	mock.Mock
}

func (m *MockLiveStatsRepository) Replace(ctx context.Context, snapshot *entities.LiveStatsSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockLiveStatsRepository) GetByContest(ctx context.Context, contestID int64) (*entities.LiveStatsSnapshot, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LiveStatsSnapshot), args.Error(1)
}

// MockLeaderboardRepository is a mock implementation of LeaderboardRepository
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) ApplyDelta(ctx context.Context, groupID, accountID string, delta entities.LeaderboardDelta) error {
	args := m.Called(ctx, groupID, accountID, delta)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) AggregateGroup(ctx context.Context, groupID string) ([]*entities.LeaderboardRow, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LeaderboardRow), args.Error(1)
}

func (m *MockLeaderboardRepository) ReplaceGroup(ctx context.Context, groupID string, rows []*entities.LeaderboardRow) error {
	args := m.Called(ctx, groupID, rows)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) GetByGroup(ctx context.Context, groupID string, limit int) ([]*entities.LeaderboardRow, error) {
	args := m.Called(ctx, groupID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LeaderboardRow), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
