package queries

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrEstimatePriceQueryIsNotConstructed = errors.New(
		"EstimatePriceQuery must be created via NewEstimatePriceQuery constructor",
	)
)

// EstimatePriceQuery asks for a price quote without booking anything.
// It runs the same pricing computation as order creation, against the
// current surge multiplier, but writes nothing and consumes no
// subscription credit.
type EstimatePriceQuery struct {
	pickupAddress string
	dropAddress   string
	packageSize   kernel.PackageSize
	timing        order.TimingWindow
	addons        []order.Addon

	guard guard.ConstructorGuard
}

// NewEstimatePriceQuery creates an estimate request.
func NewEstimatePriceQuery(
	pickupAddress string,
	dropAddress string,
	packageSize kernel.PackageSize,
	timing order.TimingWindow,
	addons []order.Addon,
) (EstimatePriceQuery, error) {
	if pickupAddress == "" {
		return EstimatePriceQuery{}, errs.NewValueIsRequiredError("pickup address")
	}
	if dropAddress == "" {
		return EstimatePriceQuery{}, errs.NewValueIsRequiredError("drop address")
	}
	if err := packageSize.Validate(); err != nil {
		return EstimatePriceQuery{}, err
	}
	if err := timing.Validate(); err != nil {
		return EstimatePriceQuery{}, err
	}
	for _, addon := range addons {
		if err := addon.Validate(); err != nil {
			return EstimatePriceQuery{}, err
		}
	}

	q := EstimatePriceQuery{
		pickupAddress: pickupAddress,
		dropAddress:   dropAddress,
		packageSize:   packageSize,
		timing:        timing,
		guard:         guard.NewConstructorGuard(),
	}
	q.addons = make([]order.Addon, len(addons))
	copy(q.addons, addons)

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q EstimatePriceQuery) Validate() error {
	return q.guard.Validate(ErrEstimatePriceQueryIsNotConstructed)
}

// PickupAddress returns the sender's address text.
func (q EstimatePriceQuery) PickupAddress() string { return q.pickupAddress }

// DropAddress returns the recipient's address text.
func (q EstimatePriceQuery) DropAddress() string { return q.dropAddress }

// PackageSize returns the parcel's size class.
func (q EstimatePriceQuery) PackageSize() kernel.PackageSize { return q.packageSize }

// Timing returns the chosen delivery speed.
func (q EstimatePriceQuery) Timing() order.TimingWindow { return q.timing }

// Addons returns a copy of the chosen optional services.
func (q EstimatePriceQuery) Addons() []order.Addon {
	addons := make([]order.Addon, len(q.addons))
	copy(addons, q.addons)
	return addons
}

// EstimatePriceQueryResponse is the quoted breakdown. Nothing about it
// is reserved; booking later may see a different surge multiplier.
type EstimatePriceQueryResponse struct {
	DistanceKM           float64
	EstimatedDurationMin int
	BaseCost             decimal.Decimal
	SurgeMultiplier      decimal.Decimal
	AddonsCost           decimal.Decimal
	BatchDiscount        decimal.Decimal
	SubscriptionDiscount decimal.Decimal
	TotalCost            decimal.Decimal
}
