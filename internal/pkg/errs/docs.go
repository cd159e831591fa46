// Package errs provides standardized error types for the parcel
// coordination core. It implements a consistent pattern for error
// creation, formatting, and unwrapping that is used throughout the
// application.
//
// The package defines two layers of error kinds:
//   - Generic validation failures (ValueIsRequiredError,
//     ValueIsInvalidError, ValueIsOutOfRangeError, ObjectNotFoundError,
//     VersionIsInvalidError)
//   - The domain failure taxonomy (InvalidTransitionError,
//     StaleStateError, CapacityExceededError, the OTP verification
//     failures, PricingInputInvalidError, NoRouteCapacityError)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrStaleState)
//   - A struct type with fields for error details
//   - Constructor functions, with and without cause where a cause makes sense
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is classifies it
//
// Nothing in the core raises an unclassified failure: every error path
// maps onto exactly one of these kinds, which lets the transport layer
// translate errors mechanically and lets tests assert on kind rather
// than on message text.
package errs
