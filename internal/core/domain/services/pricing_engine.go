package services

import (
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/subscription"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Pricing constants. These never change per request; surge is the only
// dynamic input and it arrives from the SurgeZoneTracker.
var (
	ratePerKM       = decimal.NewFromInt(10)
	minimumCharge   = decimal.NewFromInt(35)
	batchDiscount   = decimal.RequireFromString("0.15")
	riderSurgeShare = decimal.RequireFromString("0.30")
)

// vehicleMultipliers scales the per-km rate by the vehicle the parcel
// requires.
func vehicleMultipliers() map[kernel.VehicleClass]decimal.Decimal {
	return map[kernel.VehicleClass]decimal.Decimal{
		kernel.VehicleBike:      decimal.NewFromInt(1),
		kernel.VehicleMiniVan:   decimal.RequireFromString("1.3"),
		kernel.VehicleMiniTruck: decimal.RequireFromString("1.5"),
		kernel.VehicleTruck:     decimal.RequireFromString("1.8"),
	}
}

// QuoteRequest carries every input the pricing engine needs. The engine
// does no I/O; the caller resolves distance, surge and subscription
// before asking for a quote.
type QuoteRequest struct {
	DistanceKM      float64
	PackageSize     kernel.PackageSize
	Timing          order.TimingWindow
	Addons          []order.Addon
	SurgeMultiplier decimal.Decimal
	BatchEligible   bool

	// Subscription is the customer's active subscription, nil if none.
	// The engine never mutates it; it reports via Quote.FreeDelivery
	// whether the caller must consume a free-delivery credit in the
	// same transaction as the order.
	Subscription *subscription.Subscription
	Now          time.Time
}

// Quote is the engine's output: the frozen breakdown plus what the
// caller has to do with the subscription.
type Quote struct {
	Price order.PriceBreakdown

	// FreeDelivery is true when the subscription's free-delivery
	// allowance covered the surged base cost.
	FreeDelivery bool
}

// PricingEngine composes the five cost streams into an itemized price:
//
//	base     = distance * rate * vehicle multiplier * timing factor,
//	           floored at the minimum charge
//	surge    = multiplier frozen from the tracker at creation
//	addons   = flat sum of the chosen optional services
//	batch    = 15% of base, only for batch-eligible flexible timing
//	subscr.  = free delivery (covers the surged base) or the plan's
//	           percentage of the surged base
//
// The same computation serves order creation and the read-only estimate
// endpoint; it is deterministic and touches no store.
type PricingEngine struct{}

// NewPricingEngine creates a new PricingEngine instance.
func NewPricingEngine() PricingEngine {
	return PricingEngine{}
}

// Quote prices one delivery. Returns PricingInputInvalidError for a
// non-positive distance, an invalid size or timing, or an invalid
// addon; the surge multiplier defaults to 1 when zero-valued.
func (e PricingEngine) Quote(req QuoteRequest) (Quote, error) {
	if req.DistanceKM <= 0 {
		return Quote{}, errs.NewPricingInputInvalidErrorWithCause(
			"distance_km", fmt.Errorf("%f is not greater than 0", req.DistanceKM))
	}
	if err := req.PackageSize.Validate(); err != nil {
		return Quote{}, errs.NewPricingInputInvalidErrorWithCause("package_size", err)
	}
	if err := req.Timing.Validate(); err != nil {
		return Quote{}, errs.NewPricingInputInvalidErrorWithCause("timing", err)
	}

	surge := req.SurgeMultiplier
	if surge.IsZero() {
		surge = decimal.NewFromInt(1)
	}

	base := e.baseCost(req.DistanceKM, req.PackageSize, req.Timing)

	addons, err := e.addonsCost(req.Addons)
	if err != nil {
		return Quote{}, err
	}

	batch := decimal.Zero
	if req.BatchEligible && req.Timing.IsBatchEligible() {
		batch = base.Mul(batchDiscount)
	}

	surgedBase := base.Mul(surge)
	subDiscount := decimal.Zero
	freeDelivery := false
	if sub := req.Subscription; sub != nil && sub.IsActiveAt(req.Now) {
		if sub.HasFreeDelivery() {
			subDiscount = surgedBase
			freeDelivery = true
		} else {
			subDiscount = surgedBase.Mul(sub.Plan().PercentDiscount())
		}
	}

	price, err := order.NewPriceBreakdown(
		base, surge, addons, batch, subDiscount, riderSurgeShare)
	if err != nil {
		return Quote{}, err
	}

	return Quote{Price: price, FreeDelivery: freeDelivery}, nil
}

// baseCost applies rate, vehicle multiplier and timing factor, then the
// minimum-charge floor. The timing factor folds into base so the stored
// breakdown invariant stays exact.
func (e PricingEngine) baseCost(
	distanceKM float64,
	size kernel.PackageSize,
	timing order.TimingWindow,
) decimal.Decimal {
	vehicle := size.RequiredVehicle()
	base := decimal.NewFromFloat(distanceKM).
		Mul(ratePerKM).
		Mul(vehicleMultipliers()[vehicle]).
		Mul(timing.Factor()).
		Round(2)

	if base.LessThan(minimumCharge) {
		return minimumCharge
	}
	return base
}

func (e PricingEngine) addonsCost(addons []order.Addon) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, addon := range addons {
		if err := addon.Validate(); err != nil {
			return decimal.Zero, errs.NewPricingInputInvalidErrorWithCause("addons", err)
		}
		total = total.Add(addon.Price())
	}
	return total, nil
}
