// Package queries contains the read side of the application: thin
// handlers that project database rows straight into response structs,
// bypassing the aggregates. Queries never mutate state.
package queries

import (
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

// GetOrdersQuery lists orders, optionally narrowed to one customer
// and/or one status. Both filters are optional; a zero-filter query
// lists everything, newest first.
//
// Example:
//
//	customerID := kernel.NewUUID()
//	query, err := NewGetOrdersQuery(&customerID, nil)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	customerID *kernel.UUID
	status     *order.Status
	guard      guard.ConstructorGuard
}

// NewGetOrdersQuery creates a listing query. A non-nil status filter
// must be a valid status.
func NewGetOrdersQuery(customerID *kernel.UUID, status *order.Status) (GetOrdersQuery, error) {
	if customerID != nil {
		if err := customerID.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}

	return GetOrdersQuery{
		customerID: customerID,
		status:     status,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// CustomerID returns the customer filter, nil when unfiltered.
func (q GetOrdersQuery) CustomerID() *kernel.UUID { return q.customerID }

// Status returns the status filter, nil when unfiltered.
func (q GetOrdersQuery) Status() *order.Status { return q.status }

// GetOrdersQueryResponse is one row of the order listing.
type GetOrdersQueryResponse struct {
	ID            kernel.UUID
	OrderNumber   string
	Status        string
	PaymentStatus string
	TotalCost     decimal.Decimal
	CreatedAt     time.Time
}
