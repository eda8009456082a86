package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each journal write.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a journal transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// DeliveryRecordRepository returns a repository bound to the current transaction.
	DeliveryRecordRepository() DeliveryRecordRepository

	// AllocationPassRepository returns a repository bound to the current transaction.
	AllocationPassRepository() AllocationPassRepository
}
