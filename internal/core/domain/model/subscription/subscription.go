// Package subscription contains the customer subscription aggregate.
// Plans grant free-delivery allowances and percentage discounts that the
// pricing engine folds into an order's subscription discount. Consuming
// a free delivery must commit or roll back together with the order that
// used it.
package subscription

import (
	"errors"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrSubscriptionIsNotConstructed is returned when a Subscription was not
// created through NewSubscription or RestoreSubscription.
var ErrSubscriptionIsNotConstructed = errors.New(
	"Subscription must be created via NewSubscription constructor")

// Plan is a subscription tier.
type Plan int

const (
	// PlanUnknown represents an invalid or undefined plan.
	PlanUnknown Plan = iota

	// PlanStarter grants 5 free deliveries per cycle.
	PlanStarter

	// PlanBusiness grants 25 free deliveries plus 5% off afterwards.
	PlanBusiness

	// PlanEnterprise grants effectively unlimited free deliveries plus
	// 10% off.
	PlanEnterprise
)

func getPlanStrings() map[Plan]string {
	return map[Plan]string{
		PlanUnknown:    "UNKNOWN",
		PlanStarter:    "STARTER",
		PlanBusiness:   "BUSINESS",
		PlanEnterprise: "ENTERPRISE",
	}
}

// PlanFromString parses a plan from its persisted form.
func PlanFromString(s string) (Plan, error) {
	for plan, str := range getPlanStrings() {
		if str == s && plan != PlanUnknown {
			return plan, nil
		}
	}
	return PlanUnknown, errs.NewValueIsInvalidErrorWithCause(
		"plan is invalid", fmt.Errorf("%q is not a valid plan", s))
}

// Validate checks if the Plan value is valid.
func (p Plan) Validate() error {
	if p == PlanUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"plan is invalid", fmt.Errorf("%d is not a valid plan", p))
	}
	if _, ok := getPlanStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"plan is invalid", fmt.Errorf("%d is not a valid plan", p))
	}
	return nil
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	if str, ok := getPlanStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}

// FreeDeliveryAllowance returns the free deliveries granted per cycle.
func (p Plan) FreeDeliveryAllowance() int {
	switch p {
	case PlanStarter:
		return 5
	case PlanBusiness:
		return 25
	case PlanEnterprise:
		return 999
	default:
		return 0
	}
}

// PercentDiscount returns the fractional discount applied once the free
// allowance is spent.
func (p Plan) PercentDiscount() decimal.Decimal {
	switch p {
	case PlanBusiness:
		return decimal.RequireFromString("0.05")
	case PlanEnterprise:
		return decimal.RequireFromString("0.10")
	default:
		return decimal.Zero
	}
}

// Subscription is one customer's active plan with its remaining
// free-delivery allowance.
type Subscription struct {
	id            kernel.UUID
	customerID    kernel.UUID
	plan          Plan
	remainingFree int
	expiresAt     time.Time
	version       int
	isConstructed bool
}

// NewSubscription creates a subscription with the plan's full allowance.
func NewSubscription(
	id kernel.UUID,
	customerID kernel.UUID,
	plan Plan,
	expiresAt time.Time,
) (*Subscription, error) {
	if err := errors.Join(
		id.Validate(), customerID.Validate(), plan.Validate(),
	); err != nil {
		return nil, err
	}

	return &Subscription{
		id:            id,
		customerID:    customerID,
		plan:          plan,
		remainingFree: plan.FreeDeliveryAllowance(),
		expiresAt:     expiresAt,
		version:       1,
		isConstructed: true,
	}, nil
}

// RestoreSubscription rehydrates a subscription from persistence.
func RestoreSubscription(
	id kernel.UUID,
	customerID kernel.UUID,
	plan Plan,
	remainingFree int,
	expiresAt time.Time,
	version int,
) *Subscription {
	return &Subscription{
		id:            id,
		customerID:    customerID,
		plan:          plan,
		remainingFree: remainingFree,
		expiresAt:     expiresAt,
		version:       version,
		isConstructed: true,
	}
}

// Validate ensures the Subscription instance was properly constructed.
func (s *Subscription) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSubscriptionIsNotConstructed
	}
	return nil
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() kernel.UUID { return s.id }

// Customer returns the subscribed customer.
func (s *Subscription) Customer() kernel.UUID { return s.customerID }

// Plan returns the tier.
func (s *Subscription) Plan() Plan { return s.plan }

// RemainingFreeDeliveries returns the unused free-delivery allowance.
func (s *Subscription) RemainingFreeDeliveries() int { return s.remainingFree }

// ExpiresAt returns the end of the current cycle.
func (s *Subscription) ExpiresAt() time.Time { return s.expiresAt }

// Version returns the optimistic-concurrency stamp.
func (s *Subscription) Version() int { return s.version }

// IsActiveAt reports whether the subscription covers the given time.
func (s *Subscription) IsActiveAt(t time.Time) bool {
	return t.Before(s.expiresAt)
}

// HasFreeDelivery reports whether a free-delivery credit remains.
func (s *Subscription) HasFreeDelivery() bool {
	return s.remainingFree > 0
}

// ConsumeFreeDelivery decrements the allowance. The caller persists the
// subscription in the same unit of work as the order it priced, so the
// decrement and the order creation succeed or fail together.
func (s *Subscription) ConsumeFreeDelivery() error {
	if s.remainingFree <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"subscription allowance is invalid",
			fmt.Errorf("no free deliveries remaining on %s", s.plan))
	}
	s.remainingFree--
	return nil
}
