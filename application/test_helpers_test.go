package application

import (
	"context"
	"sync"
	"time"

	"pickem/domain/interfaces"
	"pickem/domain/testhelpers"
)

// mockUnitOfWork hands out the same repository mocks to every unit of work
// and counts lifecycle calls
type mockUnitOfWork struct {
	accounts       *testhelpers.MockAccountRepository
	ledger         *testhelpers.MockLedgerEntryRepository
	contests       *testhelpers.MockContestRepository
	participations *testhelpers.MockParticipationRepository
	liveStats      *testhelpers.MockLiveStatsRepository
	leaderboard    *testhelpers.MockLeaderboardRepository
	publisher      *testhelpers.MockEventPublisher

	mu        sync.Mutex
	began     int
	committed int
	rollbacks int
	beginErr  error
	commitErr error
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{
		accounts:       new(testhelpers.MockAccountRepository),
		ledger:         new(testhelpers.MockLedgerEntryRepository),
		contests:       new(testhelpers.MockContestRepository),
		participations: new(testhelpers.MockParticipationRepository),
		liveStats:      new(testhelpers.MockLiveStatsRepository),
		leaderboard:    new(testhelpers.MockLeaderboardRepository),
		publisher:      new(testhelpers.MockEventPublisher),
	}
}

func (u *mockUnitOfWork) Create() UnitOfWork { return u }

func (u *mockUnitOfWork) Begin(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.began++
	return u.beginErr
}

func (u *mockUnitOfWork) Commit() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed++
	return nil
}

func (u *mockUnitOfWork) Rollback() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rollbacks++
	return nil
}

func (u *mockUnitOfWork) commits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.committed
}

func (u *mockUnitOfWork) AccountRepository() interfaces.AccountRepository { return u.accounts }
func (u *mockUnitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	return u.ledger
}
func (u *mockUnitOfWork) ContestRepository() interfaces.ContestRepository { return u.contests }
func (u *mockUnitOfWork) ParticipationRepository() interfaces.ParticipationRepository {
	return u.participations
}
func (u *mockUnitOfWork) LiveStatsRepository() interfaces.LiveStatsRepository {
	return u.liveStats
}
func (u *mockUnitOfWork) LeaderboardRepository() interfaces.LeaderboardRepository {
	return u.leaderboard
}
func (u *mockUnitOfWork) EventBus() interfaces.EventPublisher { return u.publisher }

// recordingMetrics captures job and ingestion outcomes
type recordingMetrics struct {
	mu         sync.Mutex
	jobRuns    map[string][]bool
	ingestions []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{jobRuns: make(map[string][]bool)}
}

func (m *recordingMetrics) RecordJobRun(job string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobRuns[job] = append(m.jobRuns[job], success)
}

func (m *recordingMetrics) RecordIngestionPass(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestions = append(m.ingestions, result)
}

func (m *recordingMetrics) runs(job string) []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.jobRuns[job]...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
