package commands

import (
	"errors"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrIdempotencyKeyIsRequired = errors.New("idempotency key is required")
	ErrPickupAddressIsRequired  = errors.New("pickup address is required")
	ErrDropAddressIsRequired    = errors.New("drop address is required")
)

// CreateOrderCommand represents a request to book a new parcel delivery.
// Carries the raw booking inputs; geocoding, distance, surge and pricing
// are resolved by the handler.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(
//	    orderID, "retry-key-42", customerID,
//	    "12 Hill Road", "3 Lake View",
//	    kernel.PackageSizeSmall, order.TimingStandard, nil, order.PaymentPrepaid)
//	if err != nil {
//	    return fmt.Errorf("invalid booking data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	idempotencyKey string
	customerID     kernel.UUID
	pickupAddress  string
	dropAddress    string
	packageSize    kernel.PackageSize
	timing         order.TimingWindow
	addons         []order.Addon
	paymentMode    order.PaymentMode

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to book a new delivery.
// Validates identifiers, addresses, the size class, the timing window,
// each addon and the payment mode. Returns a joined error if any
// validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	idempotencyKey string,
	customerID kernel.UUID,
	pickupAddress string,
	dropAddress string,
	packageSize kernel.PackageSize,
	timing order.TimingWindow,
	addons []order.Addon,
	paymentMode order.PaymentMode,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setIdempotencyKey(idempotencyKey),
		cmd.setCustomerID(customerID),
		cmd.setAddresses(pickupAddress, dropAddress),
		cmd.setPackageSize(packageSize),
		cmd.setTiming(timing),
		cmd.setAddons(addons),
		cmd.setPaymentMode(paymentMode),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// IdempotencyKey returns the creator-supplied retry key.
func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

// CustomerID returns the booking customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PickupAddress returns the sender's address text.
func (c CreateOrderCommand) PickupAddress() string {
	return c.pickupAddress
}

// DropAddress returns the recipient's address text.
func (c CreateOrderCommand) DropAddress() string {
	return c.dropAddress
}

// PackageSize returns the parcel's size class.
func (c CreateOrderCommand) PackageSize() kernel.PackageSize {
	return c.packageSize
}

// Timing returns the requested delivery window.
func (c CreateOrderCommand) Timing() order.TimingWindow {
	return c.timing
}

// Addons returns the chosen optional services as a copy.
func (c CreateOrderCommand) Addons() []order.Addon {
	out := make([]order.Addon, len(c.addons))
	copy(out, c.addons)
	return out
}

// PaymentMode returns how the customer pays.
func (c CreateOrderCommand) PaymentMode() order.PaymentMode {
	return c.paymentMode
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setIdempotencyKey(key string) error {
	if key == "" {
		return ErrIdempotencyKeyIsRequired
	}

	c.idempotencyKey = key
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setAddresses(pickup string, drop string) error {
	if pickup == "" {
		return ErrPickupAddressIsRequired
	}
	if drop == "" {
		return ErrDropAddressIsRequired
	}

	c.pickupAddress = pickup
	c.dropAddress = drop
	return nil
}

func (c *CreateOrderCommand) setPackageSize(size kernel.PackageSize) error {
	if err := size.Validate(); err != nil {
		return err
	}

	c.packageSize = size
	return nil
}

func (c *CreateOrderCommand) setTiming(timing order.TimingWindow) error {
	if err := timing.Validate(); err != nil {
		return err
	}

	c.timing = timing
	return nil
}

func (c *CreateOrderCommand) setAddons(addons []order.Addon) error {
	for _, addon := range addons {
		if err := addon.Validate(); err != nil {
			return err
		}
	}

	c.addons = make([]order.Addon, len(addons))
	copy(c.addons, addons)
	return nil
}

func (c *CreateOrderCommand) setPaymentMode(mode order.PaymentMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	c.paymentMode = mode
	return nil
}
