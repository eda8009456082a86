package commands

import (
	"context"
)

// RecordDeliveryCommandHandler stores delivery records in one transaction each.
type RecordDeliveryCommandHandler struct {
	uowFactory DeliveryRecordUoWFactory
}

// NewRecordDeliveryCommandHandler creates a handler on uowFactory.
func NewRecordDeliveryCommandHandler(uowFactory DeliveryRecordUoWFactory) RecordDeliveryCommandHandler {
	return RecordDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle persists the record, rolling back on any failure.
func (h RecordDeliveryCommandHandler) Handle(ctx context.Context, cmd RecordDeliveryCommand) error {
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

	if err := uow.DeliveryRecordRepository().Add(ctx, cmd.Record()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
