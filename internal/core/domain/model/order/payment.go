package order

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

// PaymentStatus tracks the money side of the order, separate from the
// parcel lifecycle.
type PaymentStatus int

const (
	PaymentStatusUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentStatusUnknown: "UNKNOWN",
		PaymentPending:       "PENDING",
		PaymentPaid:          "PAID",
		PaymentRefunded:      "REFUNDED",
	}
}

// PaymentStatusFromString parses a payment status from its persisted form.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != PaymentStatusUnknown {
			return status, nil
		}
	}
	return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status is invalid", fmt.Errorf("%q is not a valid payment status", s))
}

// Validate checks if the PaymentStatus value is valid.
func (p PaymentStatus) Validate() error {
	if p == PaymentStatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid", fmt.Errorf("%d is not a valid payment status", p))
	}
	if _, ok := getPaymentStatusStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}

// PaymentMode is how the customer chose to pay.
type PaymentMode int

const (
	PaymentModeUnknown PaymentMode = iota
	// PaymentPrepaid means payment happens online before pickup.
	PaymentPrepaid
	// PaymentCashOnDelivery means the delivery rider collects cash.
	PaymentCashOnDelivery
)

func getPaymentModeStrings() map[PaymentMode]string {
	return map[PaymentMode]string{
		PaymentModeUnknown:    "UNKNOWN",
		PaymentPrepaid:        "PREPAID",
		PaymentCashOnDelivery: "COD",
	}
}

// PaymentModeFromString parses a payment mode from its persisted form.
func PaymentModeFromString(s string) (PaymentMode, error) {
	for mode, str := range getPaymentModeStrings() {
		if str == s && mode != PaymentModeUnknown {
			return mode, nil
		}
	}
	return PaymentModeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment mode is invalid", fmt.Errorf("%q is not a valid payment mode", s))
}

// Validate checks if the PaymentMode value is valid.
func (p PaymentMode) Validate() error {
	if p == PaymentModeUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment mode is invalid", fmt.Errorf("%d is not a valid payment mode", p))
	}
	if _, ok := getPaymentModeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment mode is invalid", fmt.Errorf("%d is not a valid payment mode", p))
	}
	return nil
}

// String implements fmt.Stringer.
func (p PaymentMode) String() string {
	if str, ok := getPaymentModeStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}
