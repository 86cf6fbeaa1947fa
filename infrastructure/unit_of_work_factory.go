package infrastructure

import (
	"pickem/application"
	"pickem/database"
	"pickem/domain/events"
	"pickem/domain/interfaces"
	"pickem/repository"
)

// RepositoryUnitOfWorkFactory builds transaction-scoped repository units of work
type RepositoryUnitOfWorkFactory interface {
	CreateWithPublisher(publisher interfaces.EventPublisher) application.UnitOfWork
}

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface.
// It creates UnitOfWork instances that handle both database transactions and event publishing.
type UnitOfWorkFactory struct {
	repoFactory    RepositoryUnitOfWorkFactory
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return NewUnitOfWorkFactoryWithRepositories(repository.NewUnitOfWorkFactory(db), eventPublisher)
}

// NewUnitOfWorkFactoryWithRepositories creates a factory over an existing repository factory
func NewUnitOfWorkFactoryWithRepositories(repoFactory RepositoryUnitOfWorkFactory, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repoFactory,
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler invoked in-process for flushed events
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler LocalEventHandler) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// Create creates a new UnitOfWork with its own transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)
	return &unitOfWork{
		inner:                  f.repoFactory.CreateWithPublisher(transactionalPublisher),
		transactionalPublisher: transactionalPublisher,
	}
}
