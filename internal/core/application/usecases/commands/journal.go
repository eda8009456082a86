package commands

import (
	"context"
	"fmt"

	"dronedelivery/internal/core/domain/model/delivery"
)

// Journal implements ports.DeliveryJournal on top of the record command handlers.
type Journal struct {
	deliveries RecordDeliveryCommandHandler
	passes     RecordAllocationPassCommandHandler
}

// NewJournal combines the two handlers.
func NewJournal(deliveries RecordDeliveryCommandHandler, passes RecordAllocationPassCommandHandler) *Journal {
	return &Journal{deliveries: deliveries, passes: passes}
}

// RecordDelivery stores a delivery record.
func (j *Journal) RecordDelivery(ctx context.Context, record delivery.Record) error {
	cmd, err := NewRecordDeliveryCommand(record)
	if err != nil {
		return err
	}
	if err := j.deliveries.Handle(ctx, cmd); err != nil {
		return fmt.Errorf("journal delivery %s: %w", record.ID(), err)
	}
	return nil
}

// RecordAllocationPass stores an allocation pass summary.
func (j *Journal) RecordAllocationPass(ctx context.Context, pass delivery.AllocationPass) error {
	cmd, err := NewRecordAllocationPassCommand(pass)
	if err != nil {
		return err
	}
	if err := j.passes.Handle(ctx, cmd); err != nil {
		return fmt.Errorf("journal allocation pass %s: %w", pass.ID(), err)
	}
	return nil
}
