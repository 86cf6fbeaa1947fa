package services

import (
	"context"
	"fmt"

	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type contestService struct {
	contestRepo    interfaces.ContestRepository
	eventPublisher interfaces.EventPublisher
}

// NewContestService creates a new contest service
func NewContestService(contestRepo interfaces.ContestRepository, eventPublisher interfaces.EventPublisher) interfaces.ContestService {
	return &contestService{
		contestRepo:    contestRepo,
		eventPublisher: eventPublisher,
	}
}

// CreateContest validates and stores a new open contest with an empty pot
func (s *contestService) CreateContest(ctx context.Context, contest *entities.Contest, invitees []string) (*entities.Contest, error) {
	if err := contest.Validate(); err != nil {
		return nil, err
	}

	contest.Status = entities.ContestStatusOpen
	contest.Pot = 0
	contest.ParticipantsCount = 0
	contest.Winners = nil
	contest.WinnerShares = nil
	contest.GhostHandled = false

	if err := s.contestRepo.Create(ctx, contest); err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ContestCreatedEvent{
		ContestID:  contest.ID,
		GroupID:    contest.GroupID,
		CreatedBy:  contest.CreatedBy,
		Recipients: invitees,
	}); err != nil {
		log.WithError(err).Error("Failed to publish contest created event")
	}

	return contest, nil
}

// GetContest returns a contest or ErrContestNotFound
func (s *contestService) GetContest(ctx context.Context, contestID int64) (*entities.Contest, error) {
	contest, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	if contest == nil {
		return nil, entities.ErrContestNotFound
	}
	return contest, nil
}
