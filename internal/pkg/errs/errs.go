package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the generic validation failures. Concrete error
// structs below wrap exactly one of these, so callers can classify any
// failure with errors.Is.
var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrVersionIsInvalid  = errors.New("version is invalid")
)

// Sentinel errors for the domain failure taxonomy. Every failure the core
// can produce maps to one of these kinds; nothing escapes unclassified.
var (
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrStaleState          = errors.New("stale state")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrOTPExpired          = errors.New("otp expired")
	ErrOTPMismatch         = errors.New("otp mismatch")
	ErrOTPExhausted        = errors.New("otp exhausted")
	ErrOTPNotVerified      = errors.New("otp not verified")
	ErrPricingInputInvalid = errors.New("pricing input is invalid")
	ErrNoRouteCapacity     = errors.New("no route capacity")

	// ErrDuplicateIdempotencyKey signals a concurrent insert under the
	// same key. Callers treat it as success-with-existing, never as a
	// failure.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)

// sanitize flattens newlines so error messages stay single-line in logs.
func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ObjectNotFoundError indicates that an entity could not be located by its
// identifier. ParamName names the lookup parameter, ID is the value used.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping
// the underlying cause (for example a database error).
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping
// the validation failure that triggered it.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates a numeric value outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError
// wrapping the underlying cause.
func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a mandatory value was missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping
// the underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError indicates a malformed optimistic-concurrency version.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError without a cause.
func NewVersionIsInvalidError(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError
// wrapping the underlying cause.
func NewVersionIsInvalidErrorWithCause(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName)
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// InvalidTransitionError indicates a status transition request that is not
// a legal edge for the requesting actor class.
type InvalidTransitionError struct {
	From  string
	To    string
	Actor string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the
// rejected edge.
func NewInvalidTransitionError(from, to, actor string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Actor: actor}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s is not allowed for actor %s",
		ErrInvalidTransition, e.From, e.To, e.Actor)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// StaleStateError indicates that a concurrent modification was detected:
// the entity's version no longer matches the version the caller loaded.
type StaleStateError struct {
	Entity string
	ID     any
}

// NewStaleStateError creates a StaleStateError for the entity whose
// optimistic-concurrency check failed.
func NewStaleStateError(entity string, id any) *StaleStateError {
	return &StaleStateError{Entity: entity, ID: id}
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("%s: %s %s was modified concurrently", ErrStaleState, e.Entity, sanitize(e.ID))
}

func (e *StaleStateError) Unwrap() error {
	return ErrStaleState
}

// CapacityExceededError indicates that an assignment would push a rider or
// warehouse past its capacity limit.
type CapacityExceededError struct {
	Resource string
	ID       any
	Limit    int
}

// NewCapacityExceededError creates a CapacityExceededError for the
// resource whose limit would be violated.
func NewCapacityExceededError(resource string, id any, limit int) *CapacityExceededError {
	return &CapacityExceededError{Resource: resource, ID: id, Limit: limit}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: %s %s is at its limit of %d", ErrCapacityExceeded, e.Resource, sanitize(e.ID), e.Limit)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// OTPExpiredError indicates verification was attempted past the code's expiry.
type OTPExpiredError struct {
	Phase string
}

// NewOTPExpiredError creates an OTPExpiredError for the handoff phase.
func NewOTPExpiredError(phase string) *OTPExpiredError {
	return &OTPExpiredError{Phase: phase}
}

func (e *OTPExpiredError) Error() string {
	return fmt.Sprintf("%s: %s code is no longer valid, request a new one", ErrOTPExpired, e.Phase)
}

func (e *OTPExpiredError) Unwrap() error {
	return ErrOTPExpired
}

// OTPMismatchError indicates the candidate code did not match the stored hash.
// Remaining reports how many attempts are left before lockout.
type OTPMismatchError struct {
	Phase     string
	Remaining int
}

// NewOTPMismatchError creates an OTPMismatchError with the remaining
// attempt budget.
func NewOTPMismatchError(phase string, remaining int) *OTPMismatchError {
	return &OTPMismatchError{Phase: phase, Remaining: remaining}
}

func (e *OTPMismatchError) Error() string {
	return fmt.Sprintf("%s: incorrect %s code, %d attempts remaining", ErrOTPMismatch, e.Phase, e.Remaining)
}

func (e *OTPMismatchError) Unwrap() error {
	return ErrOTPMismatch
}

// OTPExhaustedError indicates the attempt counter reached its limit;
// only a fresh issue clears the lockout.
type OTPExhaustedError struct {
	Phase string
}

// NewOTPExhaustedError creates an OTPExhaustedError for the handoff phase.
func NewOTPExhaustedError(phase string) *OTPExhaustedError {
	return &OTPExhaustedError{Phase: phase}
}

func (e *OTPExhaustedError) Error() string {
	return fmt.Sprintf("%s: too many wrong %s codes, request a new one", ErrOTPExhausted, e.Phase)
}

func (e *OTPExhaustedError) Unwrap() error {
	return ErrOTPExhausted
}

// OTPNotVerifiedError indicates a custody-transfer transition was requested
// before the corresponding handoff code was verified.
type OTPNotVerifiedError struct {
	Phase string
}

// NewOTPNotVerifiedError creates an OTPNotVerifiedError for the handoff phase.
func NewOTPNotVerifiedError(phase string) *OTPNotVerifiedError {
	return &OTPNotVerifiedError{Phase: phase}
}

func (e *OTPNotVerifiedError) Error() string {
	return fmt.Sprintf("%s: %s handoff has not been verified", ErrOTPNotVerified, e.Phase)
}

func (e *OTPNotVerifiedError) Unwrap() error {
	return ErrOTPNotVerified
}

// PricingInputInvalidError indicates the pricing engine received unusable
// inputs (missing coordinates, non-positive distance, unknown size class).
type PricingInputInvalidError struct {
	ParamName string
	Cause     error
}

// NewPricingInputInvalidError creates a PricingInputInvalidError without a cause.
func NewPricingInputInvalidError(paramName string) *PricingInputInvalidError {
	return &PricingInputInvalidError{ParamName: paramName}
}

// NewPricingInputInvalidErrorWithCause creates a PricingInputInvalidError
// wrapping the validation failure that triggered it.
func NewPricingInputInvalidErrorWithCause(paramName string, cause error) *PricingInputInvalidError {
	return &PricingInputInvalidError{ParamName: paramName, Cause: cause}
}

func (e *PricingInputInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrPricingInputInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPricingInputInvalid, e.ParamName)
}

func (e *PricingInputInvalidError) Unwrap() error {
	return ErrPricingInputInvalid
}

// NoRouteCapacityError indicates an order exceeded a route's parcel cap
// and could not be placed; it stays at the warehouse for the next pass.
type NoRouteCapacityError struct {
	OrderID any
}

// NewNoRouteCapacityError creates a NoRouteCapacityError for the order
// that could not be placed.
func NewNoRouteCapacityError(orderID any) *NoRouteCapacityError {
	return &NoRouteCapacityError{OrderID: orderID}
}

func (e *NoRouteCapacityError) Error() string {
	return fmt.Sprintf("%s: order %s could not be placed on any route", ErrNoRouteCapacity, sanitize(e.OrderID))
}

func (e *NoRouteCapacityError) Unwrap() error {
	return ErrNoRouteCapacity
}

// DuplicateIdempotencyKeyError indicates an order insert collided with an
// earlier creation under the same idempotency key. The caller re-reads the
// existing order and returns it as the result.
type DuplicateIdempotencyKeyError struct {
	Key   string
	Cause error
}

// NewDuplicateIdempotencyKeyError creates a DuplicateIdempotencyKeyError
// wrapping the storage error that revealed the collision.
func NewDuplicateIdempotencyKeyError(key string, cause error) *DuplicateIdempotencyKeyError {
	return &DuplicateIdempotencyKeyError{Key: key, Cause: cause}
}

func (e *DuplicateIdempotencyKeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrDuplicateIdempotencyKey, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrDuplicateIdempotencyKey, e.Key)
}

func (e *DuplicateIdempotencyKeyError) Unwrap() error {
	return ErrDuplicateIdempotencyKey
}
