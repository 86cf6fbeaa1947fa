package services

import (
	"context"
	"fmt"
	"time"

	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type contestStatusService struct {
	contestRepo     interfaces.ContestRepository
	eventPublisher  interfaces.EventPublisher
	minParticipants int64
}

// NewContestStatusService creates a new contest status service
func NewContestStatusService(
	contestRepo interfaces.ContestRepository,
	eventPublisher interfaces.EventPublisher,
	minParticipants int64,
) interfaces.ContestStatusService {
	return &contestStatusService{
		contestRepo:     contestRepo,
		eventPublisher:  eventPublisher,
		minParticipants: minParticipants,
	}
}

// Advance re-reads the contest under lock and applies the wall-clock transition
func (s *contestStatusService) Advance(ctx context.Context, contestID int64, now time.Time) (*interfaces.StatusTransition, error) {
	contest, err := s.contestRepo.GetByIDForUpdate(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	if contest == nil {
		return nil, entities.ErrContestNotFound
	}

	transition := &interfaces.StatusTransition{
		ContestID: contestID,
		From:      contest.Status,
		To:        contest.Status,
	}

	next := contest.NextStatus(now, s.minParticipants)
	if next == contest.Status || !contest.Status.CanTransitionTo(next) {
		return transition, nil
	}

	updated, err := s.contestRepo.UpdateStatus(ctx, contestID, contest.Status, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update contest status: %w", err)
	}
	if !updated {
		return transition, nil
	}

	transition.To = next
	transition.Changed = true

	if err := s.eventPublisher.Publish(events.ContestStatusChangedEvent{
		ContestID: contestID,
		OldStatus: contest.Status,
		NewStatus: next,
	}); err != nil {
		log.WithError(err).Error("Failed to publish contest status change event")
	}

	return transition, nil
}
