package infrastructure

import (
	"fmt"

	"pickem/domain/events"
)

// DomainEventStream is the JetStream stream carrying every domain event subject
const DomainEventStream = "pickem_events"

var subjectsByType = map[events.EventType]string{
	events.EventTypeBalanceChange:        "ledger.balance_changed",
	events.EventTypeContestCreated:       "contests.created",
	events.EventTypeContestJoined:        "contests.joined",
	events.EventTypeContestStatusChanged: "contests.status_changed",
	events.EventTypeContestSettled:       "contests.settled",
	events.EventTypeContestCancelled:     "contests.cancelled",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"ledger.balance_changed",
		"contests.created",
		"contests.joined",
		"contests.status_changed",
		"contests.settled",
		"contests.cancelled",
	}
}
