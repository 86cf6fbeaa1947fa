package infrastructure

import (
	"context"
	"errors"
	"sync"

	"pickem/domain/events"
)

// recordingPublisher records published events
type recordingPublisher struct {
	mu              sync.Mutex
	PublishedEvents []events.Event
	PublishError    error
}

func (m *recordingPublisher) Publish(event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

// recordingTransport records raw messages per subject
type recordingTransport struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (r *recordingTransport) Publish(ctx context.Context, subject string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

var errTransport = errors.New("transport down")
