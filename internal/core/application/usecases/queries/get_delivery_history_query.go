// Package queries contains journal read operations.
// Queries bypass the domain model and read rows straight into response types.
package queries

import (
	"errors"
	"fmt"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/guard"
)

// DefaultHistoryLimit caps history queries created without a limit.
const DefaultHistoryLimit = 100

var ErrGetDeliveryHistoryQueryIsNotConstructed = errors.New(
	"GetDeliveryHistoryQuery must be created via NewGetDeliveryHistoryQuery constructor",
)

// GetDeliveryHistoryQuery reads journaled deliveries, newest first, optionally
// for one vehicle.
//
// Example:
//
//	query, err := NewGetDeliveryHistoryQuery("D1", 20)
//	if err != nil {
//	    return err
//	}
//	records, err := handler.Handle(ctx, query)
type GetDeliveryHistoryQuery struct {
	vehicleID string
	limit     int

	guard guard.ConstructorGuard
}

// NewGetDeliveryHistoryQuery creates the query. An empty vehicleID matches every
// vehicle; limit 0 means DefaultHistoryLimit.
func NewGetDeliveryHistoryQuery(vehicleID string, limit int) (GetDeliveryHistoryQuery, error) {
	if limit < 0 {
		return GetDeliveryHistoryQuery{}, errs.NewValueIsInvalidErrorWithCause("limit", fmt.Errorf("%d is negative", limit))
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	return GetDeliveryHistoryQuery{vehicleID: vehicleID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryHistoryQueryIsNotConstructed)
}

// VehicleID returns the vehicle filter, empty for all vehicles.
func (q GetDeliveryHistoryQuery) VehicleID() string {
	return q.vehicleID
}

// Limit returns the maximum number of rows.
func (q GetDeliveryHistoryQuery) Limit() int {
	return q.limit
}

// GetDeliveryHistoryQueryResponse is one journaled delivery.
type GetDeliveryHistoryQueryResponse struct {
	ID              kernel.UUID `json:"id"`
	OrderID         string      `json:"orderId"`
	VehicleID       string      `json:"vehicleId"`
	WaitMinutes     float64     `json:"waitMinutes"`
	DeliveredAt     time.Time   `json:"deliveredAt"`
	SimulatedMinute float64     `json:"simulatedMinute"`
}
