package commands

import (
	"errors"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/pkg/guard"
)

var ErrRecordDeliveryCommandIsNotConstructed = errors.New(
	"RecordDeliveryCommand must be created via NewRecordDeliveryCommand constructor",
)

// RecordDeliveryCommand asks the journal to store one delivery record.
//
// Example:
//
//	record, _ := delivery.NewRecord("P1", "D1", 12.5, time.Now(), 23)
//	cmd, err := NewRecordDeliveryCommand(record)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type RecordDeliveryCommand struct {
	record delivery.Record

	guard guard.ConstructorGuard
}

// NewRecordDeliveryCommand wraps a constructed record.
func NewRecordDeliveryCommand(record delivery.Record) (RecordDeliveryCommand, error) {
	if err := record.Validate(); err != nil {
		return RecordDeliveryCommand{}, err
	}
	return RecordDeliveryCommand{record: record, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryCommandIsNotConstructed)
}

// Record returns the record to store.
func (c RecordDeliveryCommand) Record() delivery.Record {
	return c.record
}
