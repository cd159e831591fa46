package queries

import (
	"context"

	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/rider"

	"gorm.io/gorm"
)

// GetFleetSummaryQueryHandler aggregates per-warehouse occupancy and
// rider availability in one pass over the riders and orders tables.
type GetFleetSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetFleetSummaryQueryHandler creates a handler for fleet summaries.
func NewGetFleetSummaryQueryHandler(db *gorm.DB) GetFleetSummaryQueryHandler {
	return GetFleetSummaryQueryHandler{db: db}
}

// Handle executes the summary, one row per warehouse sorted by name.
func (h GetFleetSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetFleetSummaryQuery,
) ([]GetFleetSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			w.id,
			w.name,
			w.capacity,
			w.current_load,
			(SELECT COUNT(*) FROM orders o
				WHERE o.warehouse_id = w.id AND o.status = ?) AS held_orders,
			COALESCE(SUM(CASE WHEN r.status = ? THEN 1 ELSE 0 END), 0) AS riders_available,
			COALESCE(SUM(CASE WHEN r.status = ? THEN 1 ELSE 0 END), 0) AS riders_on_pickup,
			COALESCE(SUM(CASE WHEN r.status = ? THEN 1 ELSE 0 END), 0) AS riders_on_delivery,
			COALESCE(SUM(CASE WHEN r.status = ? THEN 1 ELSE 0 END), 0) AS riders_offline
		FROM warehouses w
		LEFT JOIN riders r ON r.home_warehouse_id = w.id
		GROUP BY w.id, w.name, w.capacity, w.current_load
		ORDER BY w.name
	`,
		order.StatusAtWarehouse.String(),
		rider.StatusAvailable.String(),
		rider.StatusOnPickup.String(),
		rider.StatusOnDelivery.String(),
		rider.StatusOffline.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]GetFleetSummaryQueryResponse, 0)
	for rows.Next() {
		var resp GetFleetSummaryQueryResponse
		var rawID []byte

		if err = rows.Scan(
			&rawID,
			&resp.WarehouseName,
			&resp.Capacity,
			&resp.CurrentLoad,
			&resp.HeldOrders,
			&resp.RidersAvailable,
			&resp.RidersOnPickup,
			&resp.RidersOnDelivery,
			&resp.RidersOffline,
		); err != nil {
			return nil, err
		}

		id, idErr := scanUUID(rawID)
		if idErr != nil {
			return nil, idErr
		}
		resp.WarehouseID = id

		summaries = append(summaries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
