package infrastructure

import (
	"context"

	"pickem/application"
	"pickem/domain/interfaces"
)

// unitOfWork wraps the repository UnitOfWork and adds event publishing on commit
type unitOfWork struct {
	inner                  application.UnitOfWork
	transactionalPublisher *NATSTransactionalPublisher
	ctx                    context.Context
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	u.ctx = ctx
	return u.inner.Begin(ctx)
}

// Commit commits the transaction and flushes events on success
func (u *unitOfWork) Commit() error {
	if err := u.inner.Commit(); err != nil {
		return err
	}

	// Events are best-effort once the transaction has committed
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	return u.inner.Rollback()
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.inner.AccountRepository()
}

func (u *unitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	return u.inner.LedgerEntryRepository()
}

func (u *unitOfWork) ContestRepository() interfaces.ContestRepository {
	return u.inner.ContestRepository()
}

func (u *unitOfWork) ParticipationRepository() interfaces.ParticipationRepository {
	return u.inner.ParticipationRepository()
}

func (u *unitOfWork) LiveStatsRepository() interfaces.LiveStatsRepository {
	return u.inner.LiveStatsRepository()
}

func (u *unitOfWork) LeaderboardRepository() interfaces.LeaderboardRepository {
	return u.inner.LeaderboardRepository()
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
