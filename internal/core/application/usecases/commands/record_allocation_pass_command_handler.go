package commands

import (
	"context"
)

// RecordAllocationPassCommandHandler stores allocation pass summaries.
type RecordAllocationPassCommandHandler struct {
	uowFactory AllocationPassUoWFactory
}

// NewRecordAllocationPassCommandHandler creates a handler on uowFactory.
func NewRecordAllocationPassCommandHandler(uowFactory AllocationPassUoWFactory) RecordAllocationPassCommandHandler {
	return RecordAllocationPassCommandHandler{uowFactory: uowFactory}
}

// Handle persists the pass, rolling back on any failure.
func (h RecordAllocationPassCommandHandler) Handle(ctx context.Context, cmd RecordAllocationPassCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.AllocationPassRepository().Add(ctx, cmd.Pass()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
