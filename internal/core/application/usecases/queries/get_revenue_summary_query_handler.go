package queries

import (
	"context"

	"parcelhub/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetRevenueSummaryQueryHandler totals the priced components of
// delivered orders over a time window.
type GetRevenueSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetRevenueSummaryQueryHandler creates a handler for revenue
// summaries.
func NewGetRevenueSummaryQueryHandler(db *gorm.DB) GetRevenueSummaryQueryHandler {
	return GetRevenueSummaryQueryHandler{db: db}
}

// Handle executes the summary over orders delivered within the window.
func (h GetRevenueSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetRevenueSummaryQuery,
) (GetRevenueSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRevenueSummaryQueryResponse{}, err
	}

	var resp GetRevenueSummaryQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*),
			COALESCE(SUM(total_cost), 0),
			COALESCE(SUM(base_cost * surge_multiplier), 0),
			COALESCE(SUM(addons_cost), 0),
			COALESCE(SUM(batch_discount), 0),
			COALESCE(SUM(subscription_discount), 0),
			COALESCE(SUM(rider_surge_bonus), 0)
		FROM orders
		WHERE status IN (?, ?)
		  AND delivered_at >= ?
		  AND delivered_at < ?
	`,
		order.StatusDelivered.String(),
		order.StatusCompleted.String(),
		query.From(),
		query.To(),
	).Row()

	if err := row.Scan(
		&resp.OrdersDelivered,
		&resp.GrossRevenue,
		&resp.BaseRevenue,
		&resp.AddonsRevenue,
		&resp.BatchDiscounts,
		&resp.SubscriptionDiscounts,
		&resp.RiderSurgeBonuses,
	); err != nil {
		return GetRevenueSummaryQueryResponse{}, err
	}

	return resp, nil
}
