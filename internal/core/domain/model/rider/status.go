package rider

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

// Status is a rider's operational state. Only AVAILABLE riders can be
// given new work.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOffline means the rider is not working.
	StatusOffline

	// StatusAvailable means the rider can accept assignments.
	StatusAvailable

	// StatusOnPickup means the rider is executing a pickup leg.
	StatusOnPickup

	// StatusOnDelivery means the rider is executing a delivery route.
	StatusOnDelivery
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "UNKNOWN",
		StatusOffline:    "OFFLINE",
		StatusAvailable:  "AVAILABLE",
		StatusOnPickup:   "ON_PICKUP",
		StatusOnDelivery: "ON_DELIVERY",
	}
}

// StatusFromString parses a rider status from its persisted form.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"rider status is invalid", fmt.Errorf("%q is not a valid rider status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"rider status is invalid", fmt.Errorf("%d is not a valid rider status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"rider status is invalid", fmt.Errorf("%d is not a valid rider status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}
