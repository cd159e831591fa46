package order

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not
// created through NewOrder or RestoreOrder. This ensures all orders are
// properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// orderNumberPattern matches the human-readable sequence, e.g.
// DLV-250823-0042.
var orderNumberPattern = regexp.MustCompile(`^DLV-\d{6}-\d{4}$`)

// HandoffPhase identifies which custody transfer an OTP protects.
type HandoffPhase int

const (
	PhaseUnknown HandoffPhase = iota
	// PhasePickup is the sender-to-rider transfer.
	PhasePickup
	// PhaseDrop is the rider-to-recipient transfer.
	PhaseDrop
)

// String implements fmt.Stringer.
func (p HandoffPhase) String() string {
	switch p {
	case PhasePickup:
		return "pickup"
	case PhaseDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// HandoffPhaseFromString parses a handoff phase from its string form.
func HandoffPhaseFromString(s string) (HandoffPhase, error) {
	switch s {
	case PhasePickup.String():
		return PhasePickup, nil
	case PhaseDrop.String():
		return PhaseDrop, nil
	}
	return PhaseUnknown, errs.NewValueIsInvalidErrorWithCause(
		"handoff phase is invalid", fmt.Errorf("%q is not a valid handoff phase", s))
}

// Validate checks if the HandoffPhase value is valid.
func (p HandoffPhase) Validate() error {
	if p != PhasePickup && p != PhaseDrop {
		return errs.NewValueIsInvalidErrorWithCause(
			"handoff phase is invalid", fmt.Errorf("%d is not a valid handoff phase", p))
	}
	return nil
}

// Order is the aggregate root of a parcel delivery. It owns the status
// state machine: every status mutation goes through RequestTransition or
// one of the named lifecycle methods, each of which appends an audit
// Event. Nothing outside this type writes status, rider assignments, or
// phase timestamps.
//
// Invariants:
//   - status transitions follow the successor table in status.go,
//     gated by actor class
//   - entry into PICKED_UP and DELIVERED requires the matching handoff
//     phase to be OTP-verified first
//   - the price breakdown is frozen at creation and never recomputed
//   - the pickup rider is only meaningful before AT_WAREHOUSE and the
//     delivery rider only from ROUTE_OPTIMIZED on
//
// Orders are never physically deleted; terminal statuses are retained
// for audit.
type Order struct {
	id             kernel.UUID
	orderNumber    string
	idempotencyKey string
	customerID     kernel.UUID

	pickupAddress string
	dropAddress   string
	pickupPoint   kernel.GeoPoint
	dropPoint     kernel.GeoPoint
	distanceKM    float64

	packageSize kernel.PackageSize

	pickupRiderID   *kernel.UUID
	deliveryRiderID *kernel.UUID
	warehouseID     *kernel.UUID
	routeID         *kernel.UUID

	status        Status
	paymentStatus PaymentStatus
	paymentMode   PaymentMode
	price         PriceBreakdown

	pickupVerified bool
	dropVerified   bool

	version int

	createdAt   time.Time
	confirmedAt *time.Time
	receivedAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	// events holds audit records not yet persisted. Drained by the
	// repository inside the same transaction as the order row.
	events []Event

	isConstructed bool
}

// NewOrder creates an order in ORDER_PLACED status with a frozen price
// breakdown and records the creation audit event.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - orderNumber: human-readable sequence, DLV-YYMMDD-XXXX
//   - idempotencyKey: creator-supplied retry key, non-empty
//   - customerID: the booking customer
//   - pickupAddress/dropAddress: free-form address text, non-empty
//   - pickupPoint/dropPoint: resolved coordinates
//   - distanceKM: road distance used for pricing, positive
//   - packageSize: parcel size class
//   - paymentMode: PREPAID or COD
//   - price: the frozen breakdown from the pricing engine
//   - now: creation time
//
// Returns the constructed order or a joined validation error if any
// input is invalid.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	idempotencyKey string,
	customerID kernel.UUID,
	pickupAddress string,
	dropAddress string,
	pickupPoint kernel.GeoPoint,
	dropPoint kernel.GeoPoint,
	distanceKM float64,
	packageSize kernel.PackageSize,
	paymentMode PaymentMode,
	price PriceBreakdown,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        StatusOrderPlaced,
		paymentStatus: PaymentPending,
		createdAt:     now,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setIdempotencyKey(idempotencyKey),
		o.setCustomerID(customerID),
		o.setAddresses(pickupAddress, dropAddress),
		o.setPoints(pickupPoint, dropPoint),
		o.setDistance(distanceKM),
		o.setPackageSize(packageSize),
		o.setPaymentMode(paymentMode),
		o.setPrice(price),
	); err != nil {
		return nil, err
	}

	o.events = append(o.events, newEvent(
		o.id, nil, StatusOrderPlaced, ActorCustomer, customerID.String(), nil, now))

	return o, nil
}

// RestoreOrder rehydrates an order from persistence. No audit event is
// recorded and no invariants are re-derived; the stored state is trusted.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	idempotencyKey string,
	customerID kernel.UUID,
	pickupAddress string,
	dropAddress string,
	pickupPoint kernel.GeoPoint,
	dropPoint kernel.GeoPoint,
	distanceKM float64,
	packageSize kernel.PackageSize,
	pickupRiderID *kernel.UUID,
	deliveryRiderID *kernel.UUID,
	warehouseID *kernel.UUID,
	routeID *kernel.UUID,
	status Status,
	paymentStatus PaymentStatus,
	paymentMode PaymentMode,
	price PriceBreakdown,
	pickupVerified bool,
	dropVerified bool,
	version int,
	createdAt time.Time,
	confirmedAt *time.Time,
	receivedAt *time.Time,
	deliveredAt *time.Time,
	cancelledAt *time.Time,
) *Order {
	return &Order{
		id:              id,
		orderNumber:     orderNumber,
		idempotencyKey:  idempotencyKey,
		customerID:      customerID,
		pickupAddress:   pickupAddress,
		dropAddress:     dropAddress,
		pickupPoint:     pickupPoint,
		dropPoint:       dropPoint,
		distanceKM:      distanceKM,
		packageSize:     packageSize,
		pickupRiderID:   pickupRiderID,
		deliveryRiderID: deliveryRiderID,
		warehouseID:     warehouseID,
		routeID:         routeID,
		status:          status,
		paymentStatus:   paymentStatus,
		paymentMode:     paymentMode,
		price:           price,
		pickupVerified:  pickupVerified,
		dropVerified:    dropVerified,
		version:         version,
		createdAt:       createdAt,
		confirmedAt:     confirmedAt,
		receivedAt:      receivedAt,
		deliveredAt:     deliveredAt,
		cancelledAt:     cancelledAt,
		isConstructed:   true,
	}
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// OrderNumber returns the human-readable sequence.
func (o *Order) OrderNumber() string { return o.orderNumber }

// IdempotencyKey returns the creator-supplied retry key.
func (o *Order) IdempotencyKey() string { return o.idempotencyKey }

// CustomerID returns the booking customer's identifier.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// PickupAddress returns the sender's address text.
func (o *Order) PickupAddress() string { return o.pickupAddress }

// DropAddress returns the recipient's address text.
func (o *Order) DropAddress() string { return o.dropAddress }

// PickupPoint returns the resolved pickup coordinate.
func (o *Order) PickupPoint() kernel.GeoPoint { return o.pickupPoint }

// DropPoint returns the resolved drop coordinate.
func (o *Order) DropPoint() kernel.GeoPoint { return o.dropPoint }

// DistanceKM returns the road distance the price was computed from.
func (o *Order) DistanceKM() float64 { return o.distanceKM }

// PackageSize returns the parcel's size class.
func (o *Order) PackageSize() kernel.PackageSize { return o.packageSize }

// PickupRider returns the pickup-leg rider, nil if unassigned.
func (o *Order) PickupRider() *kernel.UUID { return o.pickupRiderID }

// DeliveryRider returns the delivery-leg rider, nil if unassigned.
func (o *Order) DeliveryRider() *kernel.UUID { return o.deliveryRiderID }

// Warehouse returns the hub holding the parcel, nil before intake.
func (o *Order) Warehouse() *kernel.UUID { return o.warehouseID }

// Route returns the planned route, nil until batched.
func (o *Order) Route() *kernel.UUID { return o.routeID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// PaymentStatus returns the current payment status.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// PaymentMode returns how the customer pays.
func (o *Order) PaymentMode() PaymentMode { return o.paymentMode }

// Price returns the frozen price breakdown.
func (o *Order) Price() PriceBreakdown { return o.price }

// IsPhaseVerified reports whether the given handoff phase has passed OTP
// verification.
func (o *Order) IsPhaseVerified(phase HandoffPhase) bool {
	switch phase {
	case PhasePickup:
		return o.pickupVerified
	case PhaseDrop:
		return o.dropVerified
	default:
		return false
	}
}

// Version returns the optimistic-concurrency stamp. The repository bumps
// it on every successful update.
func (o *Order) Version() int { return o.version }

// CreatedAt returns the creation time.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// ConfirmedAt returns when payment was confirmed, nil if not yet.
func (o *Order) ConfirmedAt() *time.Time { return o.confirmedAt }

// ReceivedAt returns when the warehouse scanned the parcel in, nil if
// not yet.
func (o *Order) ReceivedAt() *time.Time { return o.receivedAt }

// DeliveredAt returns when the parcel was handed to the recipient, nil
// if not yet.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// CancelledAt returns when the order was cancelled, nil if it was not.
func (o *Order) CancelledAt() *time.Time { return o.cancelledAt }

// TakeEvents drains and returns the audit events accumulated since the
// last call. The repository persists them atomically with the order row.
func (o *Order) TakeEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

// RequestTransition validates and applies a status change requested by
// an external actor. This is the single entry point for all externally
// driven mutations of order status.
//
// The request is rejected with:
//   - InvalidTransitionError if target is not a direct successor of the
//     current status for this actor class
//   - OTPNotVerifiedError if target is PICKED_UP or DELIVERED and the
//     matching handoff phase has not been verified
//
// On success the phase timestamp and payment status side effects for the
// edge are applied and an audit Event is appended.
func (o *Order) RequestTransition(
	target Status,
	actor Actor,
	actorID string,
	metadata map[string]string,
	now time.Time,
) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := o.status.CanTransition(target, actor); err != nil {
		return err
	}

	switch target {
	case StatusPickedUp:
		if !o.pickupVerified {
			return errs.NewOTPNotVerifiedError(PhasePickup.String())
		}
	case StatusDelivered:
		if !o.dropVerified {
			return errs.NewOTPNotVerifiedError(PhaseDrop.String())
		}
	default:
	}

	o.apply(target, actor, actorID, metadata, now)
	return nil
}

// AssignPickupRider records the pickup-leg rider and moves the order to
// PICKUP_RIDER_ASSIGNED. Driven by dispatch, so the actor is SYSTEM.
func (o *Order) AssignPickupRider(riderID kernel.UUID, now time.Time) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	if err := o.status.CanTransition(StatusPickupRiderAssigned, ActorSystem); err != nil {
		return err
	}

	o.pickupRiderID = &riderID
	o.apply(StatusPickupRiderAssigned, ActorSystem, riderID.String(), nil, now)
	return nil
}

// MarkReceivedAtWarehouse records hub intake: sets the warehouse, stamps
// receivedAt and moves the order to AT_WAREHOUSE. The caller is
// responsible for incrementing the warehouse load in the same
// transaction.
func (o *Order) MarkReceivedAtWarehouse(warehouseID kernel.UUID, now time.Time) error {
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	if err := o.status.CanTransition(StatusAtWarehouse, ActorSystem); err != nil {
		return err
	}

	o.warehouseID = &warehouseID
	o.apply(StatusAtWarehouse, ActorSystem, warehouseID.String(), nil, now)
	return nil
}

// AssignToRoute is the batcher's entry point: it records the planned
// route and the delivery rider, and moves the order to ROUTE_OPTIMIZED.
// This edge is not reachable through RequestTransition.
func (o *Order) AssignToRoute(routeID kernel.UUID, riderID kernel.UUID, now time.Time) error {
	if err := errors.Join(routeID.Validate(), riderID.Validate()); err != nil {
		return err
	}
	if o.status != StatusAtWarehouse {
		return errs.NewInvalidTransitionError(
			o.status.String(), StatusRouteOptimized.String(), ActorSystem.String())
	}

	o.routeID = &routeID
	o.deliveryRiderID = &riderID
	o.apply(StatusRouteOptimized, ActorSystem, routeID.String(), nil, now)
	return nil
}

// MarkPhaseVerified flags a handoff phase as OTP-verified. Called by the
// verification use case after a successful code check; it does not
// change order status.
func (o *Order) MarkPhaseVerified(phase HandoffPhase) error {
	if err := phase.Validate(); err != nil {
		return err
	}
	if phase == PhasePickup {
		o.pickupVerified = true
	} else {
		o.dropVerified = true
	}
	return nil
}

// apply performs the already-validated transition: status write, edge
// side effects, audit event.
func (o *Order) apply(
	target Status,
	actor Actor,
	actorID string,
	metadata map[string]string,
	now time.Time,
) {
	from := o.status
	o.status = target

	switch target {
	case StatusPaymentConfirmed:
		o.paymentStatus = PaymentPaid
		t := now
		o.confirmedAt = &t
	case StatusAtWarehouse:
		t := now
		o.receivedAt = &t
	case StatusDelivered:
		t := now
		o.deliveredAt = &t
	case StatusCancelled:
		t := now
		o.cancelledAt = &t
	case StatusRefunded:
		o.paymentStatus = PaymentRefunded
	default:
	}

	o.events = append(o.events, newEvent(o.id, &from, target, actor, actorID, metadata, now))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if !orderNumberPattern.MatchString(orderNumber) {
		return errs.NewValueIsInvalidErrorWithCause(
			"order number is invalid",
			fmt.Errorf("%q does not match DLV-YYMMDD-XXXX", orderNumber))
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setIdempotencyKey(key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("idempotency key")
	}
	o.idempotencyKey = key
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setAddresses(pickup string, drop string) error {
	if pickup == "" {
		return errs.NewValueIsRequiredError("pickup address")
	}
	if drop == "" {
		return errs.NewValueIsRequiredError("drop address")
	}
	o.pickupAddress = pickup
	o.dropAddress = drop
	return nil
}

func (o *Order) setPoints(pickup kernel.GeoPoint, drop kernel.GeoPoint) error {
	if err := errors.Join(pickup.Validate(), drop.Validate()); err != nil {
		return err
	}
	o.pickupPoint = pickup
	o.dropPoint = drop
	return nil
}

func (o *Order) setDistance(distanceKM float64) error {
	if distanceKM <= 0 {
		return errs.NewPricingInputInvalidErrorWithCause(
			"distance_km", fmt.Errorf("%f is not greater than 0", distanceKM))
	}
	o.distanceKM = distanceKM
	return nil
}

func (o *Order) setPackageSize(size kernel.PackageSize) error {
	if err := size.Validate(); err != nil {
		return err
	}
	o.packageSize = size
	return nil
}

func (o *Order) setPaymentMode(mode PaymentMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	o.paymentMode = mode
	return nil
}

func (o *Order) setPrice(price PriceBreakdown) error {
	if err := price.Validate(); err != nil {
		return err
	}
	o.price = price
	return nil
}
