package infrastructure

import (
	"context"
	"errors"
	"testing"

	"pickem/application"
	"pickem/domain/events"
	"pickem/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUnitOfWork records lifecycle calls and exposes the publisher it was built with
type stubUnitOfWork struct {
	publisher  interfaces.EventPublisher
	commitErr  error
	began      bool
	committed  bool
	rolledBack bool
}

func (s *stubUnitOfWork) Begin(ctx context.Context) error { s.began = true; return nil }
func (s *stubUnitOfWork) Commit() error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.committed = true
	return nil
}
func (s *stubUnitOfWork) Rollback() error { s.rolledBack = true; return nil }

func (s *stubUnitOfWork) AccountRepository() interfaces.AccountRepository             { return nil }
func (s *stubUnitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository     { return nil }
func (s *stubUnitOfWork) ContestRepository() interfaces.ContestRepository             { return nil }
func (s *stubUnitOfWork) ParticipationRepository() interfaces.ParticipationRepository { return nil }
func (s *stubUnitOfWork) LiveStatsRepository() interfaces.LiveStatsRepository         { return nil }
func (s *stubUnitOfWork) LeaderboardRepository() interfaces.LeaderboardRepository     { return nil }
func (s *stubUnitOfWork) EventBus() interfaces.EventPublisher                         { return s.publisher }

type stubRepoFactory struct {
	last      *stubUnitOfWork
	commitErr error
}

func (f *stubRepoFactory) CreateWithPublisher(publisher interfaces.EventPublisher) application.UnitOfWork {
	f.last = &stubUnitOfWork{publisher: publisher, commitErr: f.commitErr}
	return f.last
}

func TestUnitOfWorkFactory_FlushesOnCommit(t *testing.T) {
	sink := &recordingPublisher{}
	repoFactory := &stubRepoFactory{}
	factory := NewUnitOfWorkFactoryWithRepositories(repoFactory, sink)

	uow := factory.Create()
	require.NoError(t, uow.Begin(context.Background()))

	// Repositories and services share the same buffered publisher
	assert.Same(t, uow.EventBus(), repoFactory.last.publisher)

	require.NoError(t, uow.EventBus().Publish(events.ContestJoinedEvent{ContestID: 1}))
	assert.Empty(t, sink.PublishedEvents)

	require.NoError(t, uow.Commit())
	assert.True(t, repoFactory.last.committed)
	assert.Len(t, sink.PublishedEvents, 1)
}

func TestUnitOfWorkFactory_DiscardsOnRollback(t *testing.T) {
	sink := &recordingPublisher{}
	factory := NewUnitOfWorkFactoryWithRepositories(&stubRepoFactory{}, sink)

	uow := factory.Create()
	require.NoError(t, uow.Begin(context.Background()))
	require.NoError(t, uow.EventBus().Publish(events.ContestJoinedEvent{ContestID: 1}))
	require.NoError(t, uow.Rollback())

	assert.Empty(t, sink.PublishedEvents)
}

func TestUnitOfWorkFactory_FailedCommitPublishesNothing(t *testing.T) {
	sink := &recordingPublisher{}
	factory := NewUnitOfWorkFactoryWithRepositories(&stubRepoFactory{commitErr: errors.New("serialization failure")}, sink)

	uow := factory.Create()
	require.NoError(t, uow.Begin(context.Background()))
	require.NoError(t, uow.EventBus().Publish(events.ContestJoinedEvent{ContestID: 1}))

	assert.Error(t, uow.Commit())
	require.NoError(t, uow.Rollback())
	assert.Empty(t, sink.PublishedEvents)
}

func TestUnitOfWorkFactory_RegisterLocalHandler(t *testing.T) {
	publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())
	factory := NewUnitOfWorkFactoryWithRepositories(&stubRepoFactory{}, publisher)

	var got []events.EventType
	factory.RegisterLocalHandler(events.EventTypeContestSettled, func(ctx context.Context, event events.Event) error {
		got = append(got, event.Type())
		return nil
	})

	uow := factory.Create()
	require.NoError(t, uow.Begin(context.Background()))
	require.NoError(t, uow.EventBus().Publish(events.ContestSettledEvent{ContestID: 9}))
	require.NoError(t, uow.Commit())

	assert.Equal(t, []events.EventType{events.EventTypeContestSettled}, got)
}
