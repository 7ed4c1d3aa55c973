package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command. Instances are never
// shared between goroutines.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary around an order write. A command
// begins it, defers Rollback, and commits once every repository call
// succeeded; a Rollback after Commit does nothing to the stored rows.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback discards uncommitted writes and fails when no transaction is open.
	Rollback(ctx context.Context) error

	// OrderRepository is bound to the open transaction, or to the pool before
	// Begin. Its reads and writes are scoped by tenant.
	OrderRepository() OrderRepository
}
