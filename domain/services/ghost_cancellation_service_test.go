package services

import (
	"context"
	"testing"
	"time"

	"pickem/domain/entities"
	"pickem/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGhostCancellationService_CancelIfGhost_RefundsPaidEntrants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockContestRepo := new(testhelpers.MockContestRepository)
	mockParticipationRepo := new(testhelpers.MockParticipationRepository)
	mockLedger := new(testhelpers.MockLedgerService)
	mockEventPublisher := new(testhelpers.MockEventPublisher)
	service := NewGhostCancellationService(mockContestRepo, mockParticipationRepo, mockLedger, mockEventPublisher, 2)

	deadline := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)
	mockContestRepo.On("GetByIDForUpdate", ctx, int64(4)).Return(&entities.Contest{
		ID:                4,
		GroupID:           "g1",
		Status:            entities.ContestStatusOpen,
		EntryCost:         3,
		Pot:               3,
		ParticipantsCount: 1,
		SignupDeadline:    deadline,
	}, nil)
	mockParticipationRepo.On("GetByContest", ctx, int64(4)).Return([]*entities.Participation{
		{ID: 1, AccountID: "a", Paid: true},
		{ID: 2, AccountID: "b", Paid: false},
	}, nil)
	mockLedger.On("Grant", ctx, "a", int64(3), "refund:4:a", entities.LedgerSourceContestRefund, mock.Anything).
		Return(&entities.GrantResult{Applied: true, FromBalance: 0, ToBalance: 3}, nil)
	mockContestRepo.On("MarkGhostCancelled", ctx, int64(4)).Return(true, nil)
	mockEventPublisher.On("Publish", mock.AnythingOfType("events.ContestCancelledEvent")).Return(nil)

	result, err := service.CancelIfGhost(ctx, 4, deadline.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Equal(t, 1, result.RefundsIssued)
	assert.Equal(t, int64(3), result.RefundedTotal)

	mockLedger.AssertExpectations(t)
	mockContestRepo.AssertExpectations(t)
}

func TestGhostCancellationService_CancelIfGhost_NotAGhost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	deadline := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		contest *entities.Contest
		now     time.Time
	}{
		{
			name:    "before deadline",
			contest: &entities.Contest{ID: 1, Status: entities.ContestStatusOpen, ParticipantsCount: 0, SignupDeadline: deadline},
			now:     deadline.Add(-time.Minute),
		},
		{
			name:    "enough participants",
			contest: &entities.Contest{ID: 1, Status: entities.ContestStatusOpen, ParticipantsCount: 2, SignupDeadline: deadline},
			now:     deadline.Add(time.Minute),
		},
		{
			name:    "already handled",
			contest: &entities.Contest{ID: 1, Status: entities.ContestStatusCancelledGhost, GhostHandled: true, SignupDeadline: deadline},
			now:     deadline.Add(time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mockContestRepo := new(testhelpers.MockContestRepository)
			mockLedger := new(testhelpers.MockLedgerService)
			service := NewGhostCancellationService(mockContestRepo, new(testhelpers.MockParticipationRepository), mockLedger,
				new(testhelpers.MockEventPublisher), 2)

			mockContestRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(tt.contest, nil)

			result, err := service.CancelIfGhost(ctx, 1, tt.now)
			require.NoError(t, err)
			assert.False(t, result.Cancelled)
			mockLedger.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mockContestRepo.AssertNotCalled(t, "MarkGhostCancelled", mock.Anything, mock.Anything)
		})
	}
}

func TestGhostCancellationService_CancelIfGhost_FreeContestNoRefunds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mockContestRepo := new(testhelpers.MockContestRepository)
	mockParticipationRepo := new(testhelpers.MockParticipationRepository)
	mockLedger := new(testhelpers.MockLedgerService)
	mockEventPublisher := new(testhelpers.MockEventPublisher)
	service := NewGhostCancellationService(mockContestRepo, mockParticipationRepo, mockLedger, mockEventPublisher, 3)

	deadline := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)
	mockContestRepo.On("GetByIDForUpdate", ctx, int64(6)).Return(&entities.Contest{
		ID: 6, Status: entities.ContestStatusOpen, ParticipantsCount: 2, SignupDeadline: deadline,
	}, nil)
	mockParticipationRepo.On("GetByContest", ctx, int64(6)).Return([]*entities.Participation{
		{ID: 1, AccountID: "a", Paid: true},
		{ID: 2, AccountID: "b", Paid: true},
	}, nil)
	mockContestRepo.On("MarkGhostCancelled", ctx, int64(6)).Return(true, nil)
	mockEventPublisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.CancelIfGhost(ctx, 6, deadline.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Zero(t, result.RefundsIssued)
	mockLedger.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
