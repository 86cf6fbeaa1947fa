package repository

import (
	"context"
	"errors"
	"fmt"

	"pickem/application"
	"pickem/database"
	"pickem/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	publisher         interfaces.EventPublisher
	accountRepo       interfaces.AccountRepository
	ledgerRepo        interfaces.LedgerEntryRepository
	contestRepo       interfaces.ContestRepository
	participationRepo interfaces.ParticipationRepository
	liveStatsRepo     interfaces.LiveStatsRepository
	leaderboardRepo   interfaces.LeaderboardRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// UnitOfWorkFactory builds transaction-scoped units of work
type UnitOfWorkFactory struct {
	db *database.DB
}

// CreateWithPublisher creates a new UnitOfWork whose EventBus is the given publisher
func (f *UnitOfWorkFactory) CreateWithPublisher(publisher interfaces.EventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		publisher: publisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = NewAccountRepository(tx)
	u.ledgerRepo = NewLedgerEntryRepository(tx)
	u.contestRepo = NewContestRepository(tx)
	u.participationRepo = NewParticipationRepository(tx)
	u.liveStatsRepo = NewLiveStatsRepository(tx)
	u.leaderboardRepo = NewLeaderboardRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil
	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// LedgerEntryRepository returns the ledger entry repository for this unit of work
func (u *unitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// ContestRepository returns the contest repository for this unit of work
func (u *unitOfWork) ContestRepository() interfaces.ContestRepository {
	if u.contestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.contestRepo
}

// ParticipationRepository returns the participation repository for this unit of work
func (u *unitOfWork) ParticipationRepository() interfaces.ParticipationRepository {
	if u.participationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.participationRepo
}

// LiveStatsRepository returns the live stats repository for this unit of work
func (u *unitOfWork) LiveStatsRepository() interfaces.LiveStatsRepository {
	if u.liveStatsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.liveStatsRepo
}

// LeaderboardRepository returns the leaderboard repository for this unit of work
func (u *unitOfWork) LeaderboardRepository() interfaces.LeaderboardRepository {
	if u.leaderboardRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.leaderboardRepo
}

// EventBus returns the event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.publisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.publisher
}
