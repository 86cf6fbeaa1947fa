package services

import (
	"context"
	"testing"

	"pickem/domain/entities"
	"pickem/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type participationMocks struct {
	contestRepo       *testhelpers.MockContestRepository
	participationRepo *testhelpers.MockParticipationRepository
	accountRepo       *testhelpers.MockAccountRepository
	ledgerService     *testhelpers.MockLedgerService
	eventPublisher    *testhelpers.MockEventPublisher
}

func newParticipationMocks() *participationMocks {
	return &participationMocks{
		contestRepo:       new(testhelpers.MockContestRepository),
		participationRepo: new(testhelpers.MockParticipationRepository),
		accountRepo:       new(testhelpers.MockAccountRepository),
		ledgerService:     new(testhelpers.MockLedgerService),
		eventPublisher:    new(testhelpers.MockEventPublisher),
	}
}

func (m *participationMocks) service() *participationService {
	return NewParticipationService(m.contestRepo, m.participationRepo, m.accountRepo, m.ledgerService, m.eventPublisher).(*participationService)
}

func TestParticipationService_Join_FirstJoinChargesOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newParticipationMocks()

	picks := []string{"8478402", "8477934"}
	m.contestRepo.On("GetByID", ctx, int64(1)).Return(&entities.Contest{ID: 1, Status: entities.ContestStatusOpen, EntryCost: 2}, nil)
	m.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(&entities.Account{ID: "acct-1", Balance: 5}, nil)
	m.participationRepo.On("GetForUpdate", ctx, int64(1), "acct-1").Return(nil, nil)
	m.ledgerService.On("Debit", ctx, "acct-1", int64(2), "entry:1:acct-1", entities.LedgerSourceContestEntry, mock.Anything).
		Return(&entities.GrantResult{Applied: true, FromBalance: 5, ToBalance: 3}, nil)
	m.participationRepo.On("UpsertPaid", ctx, int64(1), "acct-1", picks).Return(&entities.Participation{ID: 10, Paid: true}, nil)
	m.contestRepo.On("IncrementPotAndCount", ctx, int64(1), int64(2)).Return(int64(2), true, nil)
	m.accountRepo.On("IncrementParticipations", ctx, "acct-1").Return(nil)
	m.eventPublisher.On("Publish", mock.AnythingOfType("events.ContestJoinedEvent")).Return(nil)

	result, err := m.service().Join(ctx, 1, "acct-1", picks)
	require.NoError(t, err)
	assert.True(t, result.Charged)
	assert.Equal(t, int64(2), result.Pot)
	assert.Equal(t, int64(3), result.Balance)

	m.ledgerService.AssertExpectations(t)
	m.contestRepo.AssertExpectations(t)
	m.participationRepo.AssertExpectations(t)
}

func TestParticipationService_Join_RejoinOnlyUpdatesPicks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newParticipationMocks()

	picks := []string{"8471675"}
	m.contestRepo.On("GetByID", ctx, int64(1)).Return(&entities.Contest{ID: 1, Status: entities.ContestStatusOpen, EntryCost: 2, Pot: 4}, nil)
	m.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(&entities.Account{ID: "acct-1", Balance: 3}, nil)
	m.participationRepo.On("GetForUpdate", ctx, int64(1), "acct-1").Return(&entities.Participation{ID: 10, Paid: true}, nil)
	m.participationRepo.On("UpdatePicks", ctx, int64(10), picks).Return(nil)

	result, err := m.service().Join(ctx, 1, "acct-1", picks)
	require.NoError(t, err)
	assert.False(t, result.Charged)
	assert.Equal(t, int64(4), result.Pot)
	assert.Equal(t, int64(3), result.Balance)

	m.ledgerService.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.contestRepo.AssertNotCalled(t, "IncrementPotAndCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestParticipationService_Join_Rejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("contest not found", func(t *testing.T) {
		t.Parallel()
		m := newParticipationMocks()
		m.contestRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)
		_, err := m.service().Join(ctx, 99, "acct-1", []string{"p1"})
		assert.ErrorIs(t, err, entities.ErrContestNotFound)
	})

	t.Run("contest already live", func(t *testing.T) {
		t.Parallel()
		m := newParticipationMocks()
		m.contestRepo.On("GetByID", ctx, int64(1)).Return(&entities.Contest{ID: 1, Status: entities.ContestStatusLive}, nil)
		_, err := m.service().Join(ctx, 1, "acct-1", []string{"p1"})
		assert.ErrorIs(t, err, entities.ErrContestNotOpen)
	})

	t.Run("empty picks", func(t *testing.T) {
		t.Parallel()
		m := newParticipationMocks()
		_, err := m.service().Join(ctx, 1, "acct-1", nil)
		assert.ErrorIs(t, err, entities.ErrInvalidPicks)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		t.Parallel()
		m := newParticipationMocks()
		m.contestRepo.On("GetByID", ctx, int64(1)).Return(&entities.Contest{ID: 1, Status: entities.ContestStatusOpen, EntryCost: 3}, nil)
		m.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(&entities.Account{ID: "acct-1", Balance: 2}, nil)
		m.participationRepo.On("GetForUpdate", ctx, int64(1), "acct-1").Return(nil, nil)
		_, err := m.service().Join(ctx, 1, "acct-1", []string{"p1"})
		assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
		m.ledgerService.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("contest closed between read and increment", func(t *testing.T) {
		t.Parallel()
		m := newParticipationMocks()
		m.contestRepo.On("GetByID", ctx, int64(1)).Return(&entities.Contest{ID: 1, Status: entities.ContestStatusOpen, EntryCost: 1}, nil)
		m.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(&entities.Account{ID: "acct-1", Balance: 2}, nil)
		m.participationRepo.On("GetForUpdate", ctx, int64(1), "acct-1").Return(nil, nil)
		m.ledgerService.On("Debit", ctx, "acct-1", int64(1), "entry:1:acct-1", entities.LedgerSourceContestEntry, mock.Anything).
			Return(&entities.GrantResult{Applied: true, FromBalance: 2, ToBalance: 1}, nil)
		m.participationRepo.On("UpsertPaid", ctx, int64(1), "acct-1", []string{"p1"}).Return(&entities.Participation{ID: 1, Paid: true}, nil)
		m.contestRepo.On("IncrementPotAndCount", ctx, int64(1), int64(1)).Return(int64(0), false, nil)
		_, err := m.service().Join(ctx, 1, "acct-1", []string{"p1"})
		assert.ErrorIs(t, err, entities.ErrContestNotOpen)
	})
}

func TestParticipationService_Join_FreeContestSkipsDebit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newParticipationMocks()

	m.contestRepo.On("GetByID", ctx, int64(2)).Return(&entities.Contest{ID: 2, Status: entities.ContestStatusOpen, EntryCost: 0}, nil)
	m.accountRepo.On("GetByIDForUpdate", ctx, "acct-1").Return(&entities.Account{ID: "acct-1", Balance: 0}, nil)
	m.participationRepo.On("GetForUpdate", ctx, int64(2), "acct-1").Return(nil, nil)
	m.participationRepo.On("UpsertPaid", ctx, int64(2), "acct-1", []string{"p1"}).Return(&entities.Participation{ID: 1, Paid: true}, nil)
	m.contestRepo.On("IncrementPotAndCount", ctx, int64(2), int64(0)).Return(int64(0), true, nil)
	m.accountRepo.On("IncrementParticipations", ctx, "acct-1").Return(nil)
	m.eventPublisher.On("Publish", mock.Anything).Return(nil)

	result, err := m.service().Join(ctx, 2, "acct-1", []string{"p1"})
	require.NoError(t, err)
	assert.True(t, result.Charged)
	assert.Equal(t, int64(0), result.Balance)
	m.ledgerService.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
