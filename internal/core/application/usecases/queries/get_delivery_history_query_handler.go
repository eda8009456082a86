package queries

import (
	"context"

	"dronedelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryHistoryQueryHandler reads the delivery_records table.
type GetDeliveryHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryHistoryQueryHandler creates a handler on db.
func NewGetDeliveryHistoryQueryHandler(db *gorm.DB) GetDeliveryHistoryQueryHandler {
	return GetDeliveryHistoryQueryHandler{db: db}
}

// Handle returns at most query.Limit() deliveries, newest first.
func (h GetDeliveryHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryHistoryQuery,
) ([]GetDeliveryHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetDeliveryHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			vehicle_id,
			wait_minutes,
			delivered_at,
			simulated_minute
		FROM delivery_records
		WHERE ? = '' OR vehicle_id = ?
		ORDER BY delivered_at DESC, simulated_minute DESC
		LIMIT ?
	`, query.VehicleID(), query.VehicleID(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var record GetDeliveryHistoryQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&record.OrderID,
			&record.VehicleID,
			&record.WaitMinutes,
			&record.DeliveredAt,
			&record.SimulatedMinute,
		)
		if err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		record.ID = recordID
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
