package queries

import (
	"context"

	"dronedelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllocationPassesQueryHandler reads the allocation_passes table.
type GetAllocationPassesQueryHandler struct {
	db *gorm.DB
}

// NewGetAllocationPassesQueryHandler creates a handler on db.
func NewGetAllocationPassesQueryHandler(db *gorm.DB) GetAllocationPassesQueryHandler {
	return GetAllocationPassesQueryHandler{db: db}
}

// Handle returns the passes at or after query.Since(), oldest first.
func (h GetAllocationPassesQueryHandler) Handle(
	ctx context.Context,
	query GetAllocationPassesQuery,
) ([]GetAllocationPassesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	passes := make([]GetAllocationPassesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			at,
			strategy,
			trips,
			allocated,
			unallocated
		FROM allocation_passes
		WHERE at >= ?
		ORDER BY at
	`, query.Since().UTC()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pass GetAllocationPassesQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&pass.At,
			&pass.Strategy,
			&pass.Trips,
			&pass.Allocated,
			&pass.Unallocated,
		)
		if err != nil {
			return nil, err
		}

		passID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		pass.ID = passID
		passes = append(passes, pass)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return passes, nil
}
