package repository

import "context"

// UnitOfWork binds the repositories to one storage transaction. A unit is
// opened per business operation; nesting is not supported. The transaction
// only persists when Commit is called — releasing an uncommitted unit rolls
// it back.
type UnitOfWork interface {
	Users() UserRepository
	Animals() AnimalRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Release returns the underlying session. Safe to defer: it rolls back
	// unless Commit already succeeded.
	Release(ctx context.Context)
}

// UnitOfWorkManager opens units of work. Implemented by the postgres layer;
// usecases depend on this interface so tests can inject fakes.
type UnitOfWorkManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
