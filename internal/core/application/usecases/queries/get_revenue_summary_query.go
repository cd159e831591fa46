package queries

import (
	"errors"
	"fmt"
	"time"

	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetRevenueSummaryQueryIsNotConstructed = errors.New(
		"GetRevenueSummaryQuery must be created via NewGetRevenueSummaryQuery constructor",
	)
)

// GetRevenueSummaryQuery totals the revenue streams over a half-open
// time window [from, to). Only orders whose parcel reached the
// recipient count; cancelled and refunded orders are excluded.
type GetRevenueSummaryQuery struct {
	from  time.Time
	to    time.Time
	guard guard.ConstructorGuard
}

// NewGetRevenueSummaryQuery creates a revenue query over [from, to).
func NewGetRevenueSummaryQuery(from time.Time, to time.Time) (GetRevenueSummaryQuery, error) {
	if !from.Before(to) {
		return GetRevenueSummaryQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"revenue window is invalid",
			fmt.Errorf("from %s is not before to %s", from, to))
	}

	return GetRevenueSummaryQuery{
		from:  from,
		to:    to,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRevenueSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetRevenueSummaryQueryIsNotConstructed)
}

// From returns the window's inclusive start.
func (q GetRevenueSummaryQuery) From() time.Time { return q.from }

// To returns the window's exclusive end.
func (q GetRevenueSummaryQuery) To() time.Time { return q.to }

// GetRevenueSummaryQueryResponse aggregates the five cost streams over
// the window, plus the rider bonus pool paid out of surge premiums.
type GetRevenueSummaryQueryResponse struct {
	OrdersDelivered       int
	GrossRevenue          decimal.Decimal
	BaseRevenue           decimal.Decimal
	AddonsRevenue         decimal.Decimal
	BatchDiscounts        decimal.Decimal
	SubscriptionDiscounts decimal.Decimal
	RiderSurgeBonuses     decimal.Decimal
}
