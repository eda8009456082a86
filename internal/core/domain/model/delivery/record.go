// Package delivery holds the append-only facts the fleet produces: one Record
// per completed delivery and one AllocationPass per processing run.
package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/pkg/errs"
	"dronedelivery/internal/pkg/guard"
)

// ErrRecordIsNotConstructed is returned when a Record was not created through NewRecord or RestoreRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

// Record is the immutable fact that an order was handed over by a vehicle.
type Record struct {
	id              kernel.UUID
	orderID         string
	vehicleID       string
	waitMinutes     float64
	deliveredAt     time.Time
	simulatedMinute float64
	guard           guard.ConstructorGuard
}

// NewRecord creates a Record with a fresh identifier.
//
// Parameters:
//   - orderID, vehicleID: non-empty identifiers
//   - waitMinutes: minutes from order arrival to delivery (≥ 0)
//   - deliveredAt: wall-clock delivery timestamp
//   - simulatedMinute: simulator clock at delivery
func NewRecord(orderID, vehicleID string, waitMinutes float64, deliveredAt time.Time, simulatedMinute float64) (Record, error) {
	return RestoreRecord(kernel.NewUUID(), orderID, vehicleID, waitMinutes, deliveredAt, simulatedMinute)
}

// RestoreRecord rebuilds a Record read back from the journal.
func RestoreRecord(
	id kernel.UUID,
	orderID, vehicleID string,
	waitMinutes float64,
	deliveredAt time.Time,
	simulatedMinute float64,
) (Record, error) {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, err)
	}
	if orderID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("orderID"))
	}
	if vehicleID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("vehicleID"))
	}
	if waitMinutes < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("waitMinutes",
			fmt.Errorf("%v is negative", waitMinutes)))
	}
	if err := errors.Join(problems...); err != nil {
		return Record{}, err
	}

	return Record{
		id:              id,
		orderID:         orderID,
		vehicleID:       vehicleID,
		waitMinutes:     waitMinutes,
		deliveredAt:     deliveredAt,
		simulatedMinute: simulatedMinute,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the record was built by a constructor.
func (r Record) Validate() error {
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

// ID returns the record identifier.
func (r Record) ID() kernel.UUID { return r.id }

// OrderID returns the delivered order.
func (r Record) OrderID() string { return r.orderID }

// VehicleID returns the delivering vehicle.
func (r Record) VehicleID() string { return r.vehicleID }

// WaitMinutes returns the minutes from arrival to delivery.
func (r Record) WaitMinutes() float64 { return r.waitMinutes }

// DeliveredAt returns the wall-clock delivery time.
func (r Record) DeliveredAt() time.Time { return r.deliveredAt }

// SimulatedMinute returns the simulator clock at delivery.
func (r Record) SimulatedMinute() float64 { return r.simulatedMinute }

// MarshalJSON renders the record for reports.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID              kernel.UUID `json:"id"`
		OrderID         string      `json:"orderId"`
		VehicleID       string      `json:"vehicleId"`
		WaitMinutes     float64     `json:"waitMinutes"`
		DeliveredAt     time.Time   `json:"deliveredAt"`
		SimulatedMinute float64     `json:"simulatedMinute"`
	}{r.id, r.orderID, r.vehicleID, r.waitMinutes, r.deliveredAt, r.simulatedMinute})
}
