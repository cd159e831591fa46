package queries

import (
	"context"
	"database/sql"
	"errors"

	"parcelhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderDetailQueryHandler loads one order row plus its audit trail.
type GetOrderDetailQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderDetailQueryHandler creates a handler for order detail
// queries.
func NewGetOrderDetailQueryHandler(db *gorm.DB) GetOrderDetailQueryHandler {
	return GetOrderDetailQueryHandler{db: db}
}

// Handle executes the detail query. Returns ObjectNotFoundError when the
// order does not exist.
func (h GetOrderDetailQueryHandler) Handle(
	ctx context.Context,
	query GetOrderDetailQuery,
) (GetOrderDetailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderDetailQueryResponse{}, err
	}

	var resp GetOrderDetailQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			order_number,
			status,
			payment_status,
			payment_mode,
			package_size,
			pickup_address,
			drop_address,
			distance_km,
			base_cost,
			surge_multiplier,
			addons_cost,
			batch_discount,
			subscription_discount,
			total_cost,
			rider_surge_bonus,
			pickup_verified,
			drop_verified,
			created_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&resp.OrderNumber,
		&resp.Status,
		&resp.PaymentStatus,
		&resp.PaymentMode,
		&resp.PackageSize,
		&resp.PickupAddress,
		&resp.DropAddress,
		&resp.DistanceKM,
		&resp.BaseCost,
		&resp.SurgeMultiplier,
		&resp.AddonsCost,
		&resp.BatchDiscount,
		&resp.SubscriptionDiscount,
		&resp.TotalCost,
		&resp.RiderSurgeBonus,
		&resp.PickupVerified,
		&resp.DropVerified,
		&resp.CreatedAt,
		&resp.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
			return GetOrderDetailQueryResponse{}, errs.NewObjectNotFoundError(
				"order", query.OrderID().String())
		}
		return GetOrderDetailQueryResponse{}, err
	}

	resp.ID = query.OrderID()

	events, err := h.loadEvents(ctx, query)
	if err != nil {
		return GetOrderDetailQueryResponse{}, err
	}
	resp.Events = events

	return resp, nil
}

func (h GetOrderDetailQueryHandler) loadEvents(
	ctx context.Context,
	query GetOrderDetailQuery,
) ([]OrderEventResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			from_status,
			to_status,
			actor,
			actor_id,
			occurred_at
		FROM order_events
		WHERE order_id = ?
		ORDER BY occurred_at ASC
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OrderEventResponse, 0)
	for rows.Next() {
		var event OrderEventResponse
		if err = rows.Scan(
			&event.FromStatus,
			&event.ToStatus,
			&event.Actor,
			&event.ActorID,
			&event.OccurredAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
