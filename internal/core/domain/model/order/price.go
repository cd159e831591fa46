package order

import (
	"errors"
	"fmt"

	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrPriceBreakdownIsNotConstructed is returned when a PriceBreakdown was
// not created via NewPriceBreakdown.
var ErrPriceBreakdownIsNotConstructed = errs.NewValueIsRequiredError(
	"price breakdown must be created via NewPriceBreakdown constructor")

// PriceBreakdown is the itemized, frozen price of an order. Every
// component is stored individually so the total is auditable and
// re-derivable. All amounts use fixed-point decimals; floats never touch
// money.
//
// Invariant, enforced at construction:
//
//	total = max(0, base*surge + addons - batchDiscount - subscriptionDiscount)
//
// The surge multiplier is frozen here at order creation; later surge
// changes never alter an existing breakdown.
type PriceBreakdown struct {
	baseCost             decimal.Decimal
	surgeMultiplier      decimal.Decimal
	addonsCost           decimal.Decimal
	batchDiscount        decimal.Decimal
	subscriptionDiscount decimal.Decimal
	totalCost            decimal.Decimal
	riderSurgeBonus      decimal.Decimal
	guard                guard.ConstructorGuard
}

// NewPriceBreakdown assembles a breakdown from its components, derives
// the total and the rider's surge bonus share, and validates the
// invariants. The rider bonus is the given share of the surge premium
// (base*surge - base).
//
// All components must be non-negative and the surge multiplier at least
// 1. Returns PricingInputInvalidError otherwise.
func NewPriceBreakdown(
	baseCost decimal.Decimal,
	surgeMultiplier decimal.Decimal,
	addonsCost decimal.Decimal,
	batchDiscount decimal.Decimal,
	subscriptionDiscount decimal.Decimal,
	riderSurgeShare decimal.Decimal,
) (PriceBreakdown, error) {
	if err := errors.Join(
		requireNonNegative("base_cost", baseCost),
		requireNonNegative("addons_cost", addonsCost),
		requireNonNegative("batch_discount", batchDiscount),
		requireNonNegative("subscription_discount", subscriptionDiscount),
	); err != nil {
		return PriceBreakdown{}, err
	}
	if surgeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return PriceBreakdown{}, errs.NewPricingInputInvalidErrorWithCause(
			"surge_multiplier", fmt.Errorf("%s is below 1", surgeMultiplier))
	}

	surgedBase := baseCost.Mul(surgeMultiplier)
	total := surgedBase.Add(addonsCost).Sub(batchDiscount).Sub(subscriptionDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	bonus := surgedBase.Sub(baseCost).Mul(riderSurgeShare).Round(2)
	if bonus.IsNegative() {
		bonus = decimal.Zero
	}

	return PriceBreakdown{
		baseCost:             baseCost.Round(2),
		surgeMultiplier:      surgeMultiplier,
		addonsCost:           addonsCost.Round(2),
		batchDiscount:        batchDiscount.Round(2),
		subscriptionDiscount: subscriptionDiscount.Round(2),
		totalCost:            total.Round(2),
		riderSurgeBonus:      bonus,
		guard:                guard.NewConstructorGuard(),
	}, nil
}

// RestorePriceBreakdown rehydrates a breakdown from persistence without
// re-deriving the total. Stored components are trusted; the audit
// property comes from them having been validated at creation.
func RestorePriceBreakdown(
	baseCost decimal.Decimal,
	surgeMultiplier decimal.Decimal,
	addonsCost decimal.Decimal,
	batchDiscount decimal.Decimal,
	subscriptionDiscount decimal.Decimal,
	totalCost decimal.Decimal,
	riderSurgeBonus decimal.Decimal,
) PriceBreakdown {
	return PriceBreakdown{
		baseCost:             baseCost,
		surgeMultiplier:      surgeMultiplier,
		addonsCost:           addonsCost,
		batchDiscount:        batchDiscount,
		subscriptionDiscount: subscriptionDiscount,
		totalCost:            totalCost,
		riderSurgeBonus:      riderSurgeBonus,
		guard:                guard.NewConstructorGuard(),
	}
}

// Validate checks that the breakdown was built through a constructor.
func (p PriceBreakdown) Validate() error {
	return p.guard.Validate(ErrPriceBreakdownIsNotConstructed)
}

// BaseCost returns the distance-and-vehicle cost after the minimum
// charge floor.
func (p PriceBreakdown) BaseCost() decimal.Decimal { return p.baseCost }

// SurgeMultiplier returns the multiplier frozen at creation.
func (p PriceBreakdown) SurgeMultiplier() decimal.Decimal { return p.surgeMultiplier }

// AddonsCost returns the summed price of optional services.
func (p PriceBreakdown) AddonsCost() decimal.Decimal { return p.addonsCost }

// BatchDiscount returns the discount granted for batch-eligible timing.
func (p PriceBreakdown) BatchDiscount() decimal.Decimal { return p.batchDiscount }

// SubscriptionDiscount returns the discount from the customer's plan.
func (p PriceBreakdown) SubscriptionDiscount() decimal.Decimal { return p.subscriptionDiscount }

// TotalCost returns the non-negative total.
func (p PriceBreakdown) TotalCost() decimal.Decimal { return p.totalCost }

// RiderSurgeBonus returns the rider's share of the surge premium,
// computed when the price was frozen.
func (p PriceBreakdown) RiderSurgeBonus() decimal.Decimal { return p.riderSurgeBonus }

func requireNonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.NewPricingInputInvalidErrorWithCause(
			name, fmt.Errorf("%s is negative", v))
	}
	return nil
}
