package queries

import (
	"errors"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/guard"
)

var ErrGetAllocationPassesQueryIsNotConstructed = errors.New(
	"GetAllocationPassesQuery must be created via NewGetAllocationPassesQuery constructor",
)

// GetAllocationPassesQuery reads journaled allocation passes since a point in time.
type GetAllocationPassesQuery struct {
	since time.Time

	guard guard.ConstructorGuard
}

// NewGetAllocationPassesQuery creates the query. A zero since returns every pass.
func NewGetAllocationPassesQuery(since time.Time) GetAllocationPassesQuery {
	return GetAllocationPassesQuery{since: since, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllocationPassesQuery) Validate() error {
	return q.guard.Validate(ErrGetAllocationPassesQueryIsNotConstructed)
}

// Since returns the lower time bound, inclusive.
func (q GetAllocationPassesQuery) Since() time.Time {
	return q.since
}

// GetAllocationPassesQueryResponse is one journaled allocation pass.
type GetAllocationPassesQueryResponse struct {
	ID          kernel.UUID `json:"id"`
	At          time.Time   `json:"at"`
	Strategy    string      `json:"strategy"`
	Trips       int         `json:"trips"`
	Allocated   int         `json:"allocated"`
	Unallocated int         `json:"unallocated"`
}
