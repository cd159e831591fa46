package queries

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GetOrdersQueryHandler lists orders from the database, applying the
// query's optional customer and status filters.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listings.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the listing, newest orders first.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Select("id, order_number, status, payment_status, total_cost, created_at").
		Order("created_at DESC")

	if query.CustomerID() != nil {
		tx = tx.Where("customer_id = ?", query.CustomerID().Bytes())
	}
	if query.Status() != nil {
		tx = tx.Where("status = ?", query.Status().String())
	}

	rows, err := tx.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetOrdersQueryResponse
		var rawID []byte

		if err = rows.Scan(
			&rawID,
			&resp.OrderNumber,
			&resp.Status,
			&resp.PaymentStatus,
			&resp.TotalCost,
			&resp.CreatedAt,
		); err != nil {
			return nil, err
		}

		id, idErr := scanUUID(rawID)
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = id

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// scanUUID converts a scanned uuid column, which the driver may deliver
// as raw bytes or as text, into a kernel UUID.
func scanUUID(raw []byte) (kernel.UUID, error) {
	if len(raw) == 16 {
		return kernel.UUIDFromBytes(raw)
	}
	return kernel.UUIDFromString(string(raw))
}
