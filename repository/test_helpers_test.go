package repository

import (
	"context"
	"testing"

	"pickem/application"
	"pickem/database"
	"pickem/domain/entities"
	"pickem/domain/services"
	"pickem/domain/testhelpers"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPublisher() *testhelpers.MockEventPublisher {
	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil)
	return publisher
}

// inTx runs fn inside a fresh unit of work, committing on success
func inTx(ctx context.Context, db *database.DB, fn func(uow application.UnitOfWork) error) error {
	uow := NewUnitOfWorkFactory(db).CreateWithPublisher(newTestPublisher())
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}

// seedAccount registers an account and funds it through the ledger
func seedAccount(t *testing.T, ctx context.Context, db *database.DB, accountID string, balance int64) {
	t.Helper()
	err := inTx(ctx, db, func(uow application.UnitOfWork) error {
		if _, err := uow.AccountRepository().Create(ctx, accountID, accountID); err != nil {
			return err
		}
		if balance == 0 {
			return nil
		}
		ledger := services.NewLedgerService(uow.AccountRepository(), uow.LedgerEntryRepository(), uow.EventBus())
		_, err := ledger.Grant(ctx, accountID, balance, "adjustment:seed:"+accountID, entities.LedgerSourceAdjustment, nil)
		return err
	})
	require.NoError(t, err)
}

func balanceOf(t *testing.T, ctx context.Context, db *database.DB, accountID string) int64 {
	t.Helper()
	account, err := NewAccountRepository(db).GetByID(ctx, accountID)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.Balance
}
