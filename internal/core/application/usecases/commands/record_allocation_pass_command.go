package commands

import (
	"errors"

	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/pkg/guard"
)

var ErrRecordAllocationPassCommandIsNotConstructed = errors.New(
	"RecordAllocationPassCommand must be created via NewRecordAllocationPassCommand constructor",
)

// RecordAllocationPassCommand asks the journal to store one allocation pass summary.
type RecordAllocationPassCommand struct {
	pass delivery.AllocationPass

	guard guard.ConstructorGuard
}

// NewRecordAllocationPassCommand wraps a constructed pass.
func NewRecordAllocationPassCommand(pass delivery.AllocationPass) (RecordAllocationPassCommand, error) {
	if err := pass.Validate(); err != nil {
		return RecordAllocationPassCommand{}, err
	}
	return RecordAllocationPassCommand{pass: pass, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordAllocationPassCommand) Validate() error {
	return c.guard.Validate(ErrRecordAllocationPassCommandIsNotConstructed)
}

// Pass returns the summary to store.
func (c RecordAllocationPassCommand) Pass() delivery.AllocationPass {
	return c.pass
}
