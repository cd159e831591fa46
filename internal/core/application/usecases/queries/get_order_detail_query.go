package queries

import (
	"errors"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderDetailQueryIsNotConstructed = errors.New(
		"GetOrderDetailQuery must be created via NewGetOrderDetailQuery constructor",
	)
)

// GetOrderDetailQuery retrieves one order with its frozen price
// breakdown and the full audit trail.
type GetOrderDetailQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOrderDetailQuery creates a detail query for the given order.
func NewGetOrderDetailQuery(orderID kernel.UUID) (GetOrderDetailQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailQuery{}, err
	}

	return GetOrderDetailQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderDetailQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailQueryIsNotConstructed)
}

// OrderID returns the order to load.
func (q GetOrderDetailQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderDetailQueryResponse is the complete read model of one order.
type GetOrderDetailQueryResponse struct {
	ID            kernel.UUID
	OrderNumber   string
	Status        string
	PaymentStatus string
	PaymentMode   string
	PackageSize   string

	PickupAddress string
	DropAddress   string
	DistanceKM    float64

	BaseCost             decimal.Decimal
	SurgeMultiplier      decimal.Decimal
	AddonsCost           decimal.Decimal
	BatchDiscount        decimal.Decimal
	SubscriptionDiscount decimal.Decimal
	TotalCost            decimal.Decimal
	RiderSurgeBonus      decimal.Decimal

	PickupVerified bool
	DropVerified   bool

	CreatedAt   time.Time
	DeliveredAt *time.Time

	Events []OrderEventResponse
}

// OrderEventResponse is one audit trail entry. FromStatus is nil for the
// creation event.
type OrderEventResponse struct {
	FromStatus *string
	ToStatus   string
	Actor      string
	ActorID    string
	OccurredAt time.Time
}
