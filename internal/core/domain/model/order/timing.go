package order

import (
	"fmt"

	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// TimingWindow is the delivery speed the customer chose. It scales the
// base cost and decides batch eligibility: flexible (non-express)
// windows may be grouped onto shared routes for a discount.
type TimingWindow int

const (
	TimingUnknown TimingWindow = iota
	// TimingNextDay is the cheapest, most flexible window.
	TimingNextDay
	// TimingStandard is same-or-next day, flexible.
	TimingStandard
	// TimingSameDay is guaranteed same day.
	TimingSameDay
	// TimingExpress is as-fast-as-possible, never batched.
	TimingExpress
)

func getTimingStrings() map[TimingWindow]string {
	return map[TimingWindow]string{
		TimingUnknown:  "UNKNOWN",
		TimingNextDay:  "NEXT_DAY",
		TimingStandard: "STANDARD",
		TimingSameDay:  "SAME_DAY",
		TimingExpress:  "EXPRESS",
	}
}

// TimingWindowFromString parses a timing window from its persisted form.
func TimingWindowFromString(s string) (TimingWindow, error) {
	for timing, str := range getTimingStrings() {
		if str == s && timing != TimingUnknown {
			return timing, nil
		}
	}
	return TimingUnknown, errs.NewValueIsInvalidErrorWithCause(
		"timing window is invalid", fmt.Errorf("%q is not a valid timing window", s))
}

// Validate checks if the TimingWindow value is valid.
func (w TimingWindow) Validate() error {
	if w == TimingUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"timing window is invalid", fmt.Errorf("%d is not a valid timing window", w))
	}
	if _, ok := getTimingStrings()[w]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"timing window is invalid", fmt.Errorf("%d is not a valid timing window", w))
	}
	return nil
}

// String implements fmt.Stringer.
func (w TimingWindow) String() string {
	if str, ok := getTimingStrings()[w]; ok {
		return str
	}
	return "UNKNOWN"
}

// Factor returns the base-cost multiplier for the window.
func (w TimingWindow) Factor() decimal.Decimal {
	switch w {
	case TimingNextDay:
		return decimal.RequireFromString("0.9")
	case TimingSameDay:
		return decimal.RequireFromString("1.3")
	case TimingExpress:
		return decimal.RequireFromString("1.8")
	default:
		return decimal.NewFromInt(1)
	}
}

// IsBatchEligible reports whether the window's flexibility permits
// grouping the order onto a shared route.
func (w TimingWindow) IsBatchEligible() bool {
	return w != TimingExpress && w != TimingUnknown
}

// Addon is an optional paid service attached to an order at booking.
type Addon int

const (
	AddonUnknown Addon = iota
	// AddonPriorityHandling jumps the warehouse queue.
	AddonPriorityHandling
	// AddonPhotoProof requires a delivery photo.
	AddonPhotoProof
	// AddonInsurance5K covers the parcel up to 5,000.
	AddonInsurance5K
	// AddonInsurance25K covers the parcel up to 25,000.
	AddonInsurance25K
	// AddonScheduledSlot pins the delivery to a time slot.
	AddonScheduledSlot
	// AddonReturnService collects a return parcel at the drop.
	AddonReturnService
)

func getAddonStrings() map[Addon]string {
	return map[Addon]string{
		AddonUnknown:          "UNKNOWN",
		AddonPriorityHandling: "PRIORITY_HANDLING",
		AddonPhotoProof:       "PHOTO_PROOF",
		AddonInsurance5K:      "INSURANCE_5K",
		AddonInsurance25K:     "INSURANCE_25K",
		AddonScheduledSlot:    "SCHEDULED_SLOT",
		AddonReturnService:    "RETURN_SERVICE",
	}
}

// AddonFromString parses an addon from its persisted form.
func AddonFromString(s string) (Addon, error) {
	for addon, str := range getAddonStrings() {
		if str == s && addon != AddonUnknown {
			return addon, nil
		}
	}
	return AddonUnknown, errs.NewValueIsInvalidErrorWithCause(
		"addon is invalid", fmt.Errorf("%q is not a valid addon", s))
}

// Validate checks if the Addon value is valid.
func (a Addon) Validate() error {
	if a == AddonUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"addon is invalid", fmt.Errorf("%d is not a valid addon", a))
	}
	if _, ok := getAddonStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"addon is invalid", fmt.Errorf("%d is not a valid addon", a))
	}
	return nil
}

// String implements fmt.Stringer.
func (a Addon) String() string {
	if str, ok := getAddonStrings()[a]; ok {
		return str
	}
	return "UNKNOWN"
}

// Price returns the flat price of the addon.
func (a Addon) Price() decimal.Decimal {
	switch a {
	case AddonPriorityHandling:
		return decimal.NewFromInt(30)
	case AddonPhotoProof:
		return decimal.NewFromInt(10)
	case AddonInsurance5K:
		return decimal.NewFromInt(25)
	case AddonInsurance25K:
		return decimal.NewFromInt(75)
	case AddonScheduledSlot:
		return decimal.NewFromInt(20)
	case AddonReturnService:
		return decimal.NewFromInt(15)
	default:
		return decimal.Zero
	}
}
