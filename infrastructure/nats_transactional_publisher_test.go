package infrastructure

import (
	"context"
	"testing"

	"pickem/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSTransactionalPublisher_FlushPublishesInOrder(t *testing.T) {
	sink := &recordingPublisher{}
	publisher := NewNATSTransactionalPublisher(sink)

	first := events.ContestJoinedEvent{ContestID: 1, AccountID: "alice", EntryCost: 2, Pot: 2}
	second := events.ContestJoinedEvent{ContestID: 1, AccountID: "bob", EntryCost: 2, Pot: 4}

	require.NoError(t, publisher.Publish(first))
	require.NoError(t, publisher.Publish(second))

	// Nothing leaves the buffer before flush
	assert.Empty(t, sink.PublishedEvents)
	assert.Equal(t, 2, publisher.PendingCount())

	require.NoError(t, publisher.Flush(context.Background()))

	require.Len(t, sink.PublishedEvents, 2)
	assert.Equal(t, first, sink.PublishedEvents[0])
	assert.Equal(t, second, sink.PublishedEvents[1])
	assert.Equal(t, 0, publisher.PendingCount())

	// A second flush publishes nothing new
	require.NoError(t, publisher.Flush(context.Background()))
	assert.Len(t, sink.PublishedEvents, 2)
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	sink := &recordingPublisher{}
	publisher := NewNATSTransactionalPublisher(sink)

	require.NoError(t, publisher.Publish(events.ContestSettledEvent{ContestID: 7}))
	publisher.Discard()
	require.NoError(t, publisher.Flush(context.Background()))

	assert.Empty(t, sink.PublishedEvents)
}

func TestNATSTransactionalPublisher_FlushSurvivesPublishErrors(t *testing.T) {
	sink := &recordingPublisher{PublishError: errTransport}
	publisher := NewNATSTransactionalPublisher(sink)

	require.NoError(t, publisher.Publish(events.ContestSettledEvent{ContestID: 7}))
	require.NoError(t, publisher.Publish(events.ContestCancelledEvent{ContestID: 8}))

	assert.NoError(t, publisher.Flush(context.Background()))
	assert.Equal(t, 0, publisher.PendingCount())
}
