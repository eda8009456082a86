// Package commands contains the journal write operations.
// Every command follows the same pattern: validation, transaction management
// and persistence through a unit of work.
package commands

import (
	"context"

	"dronedelivery/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles the database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DeliveryRecordRepoFactory provides the delivery record repository within a transaction.
	DeliveryRecordRepoFactory interface {
		DeliveryRecordRepository() ports.DeliveryRecordRepository
	}

	// AllocationPassRepoFactory provides the allocation pass repository within a transaction.
	AllocationPassRepoFactory interface {
		AllocationPassRepository() ports.AllocationPassRepository
	}

	// DeliveryRecordUoW manages transactions that write delivery records.
	DeliveryRecordUoW interface {
		TxManager
		DeliveryRecordRepoFactory
	}

	// DeliveryRecordUoWFactory creates delivery record units of work.
	DeliveryRecordUoWFactory interface {
		Create() DeliveryRecordUoW
	}

	// AllocationPassUoW manages transactions that write allocation passes.
	AllocationPassUoW interface {
		TxManager
		AllocationPassRepoFactory
	}

	// AllocationPassUoWFactory creates allocation pass units of work.
	AllocationPassUoWFactory interface {
		Create() AllocationPassUoW
	}
)
