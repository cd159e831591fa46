// Package orderrepo persists the order aggregate and its append-only
// audit trail. The order row and the event rows written by one mutation
// always land in the same transaction, so the trail never disagrees with
// the state it explains.
package orderrepo

import (
	"encoding/json"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the database representation of an order aggregate. Status
// enums are stored as their SCREAMING_SNAKE strings so the rows stay
// readable in ad-hoc queries, and all money columns are fixed-point.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber    string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`

	PickupAddress string  `gorm:"type:text;not null"`
	DropAddress   string  `gorm:"type:text;not null"`
	PickupLat     float64 `gorm:"type:double precision;not null"`
	PickupLng     float64 `gorm:"type:double precision;not null"`
	DropLat       float64 `gorm:"type:double precision;not null"`
	DropLng       float64 `gorm:"type:double precision;not null"`
	DistanceKM    float64 `gorm:"type:double precision;not null"`

	PackageSize string `gorm:"type:varchar(16);not null"`

	PickupRiderID   *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryRiderID *uuid.UUID `gorm:"type:uuid;index"`
	WarehouseID     *uuid.UUID `gorm:"type:uuid;index"`
	RouteID         *uuid.UUID `gorm:"type:uuid;index"`

	Status        string `gorm:"type:varchar(32);not null;index"`
	PaymentStatus string `gorm:"type:varchar(16);not null"`
	PaymentMode   string `gorm:"type:varchar(16);not null"`

	BaseCost             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SurgeMultiplier      decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	AddonsCost           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BatchDiscount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SubscriptionDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RiderSurgeBonus      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	PickupVerified bool `gorm:"not null"`
	DropVerified   bool `gorm:"not null"`

	Version int `gorm:"not null"`

	CreatedAt   time.Time `gorm:"not null;index"`
	ConfirmedAt *time.Time
	ReceivedAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// EventDTO is one append-only audit row. FromStatus is null only for the
// creation event.
type EventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus *string   `gorm:"type:varchar(32)"`
	ToStatus   string    `gorm:"type:varchar(32);not null"`
	Actor      string    `gorm:"type:varchar(16);not null"`
	ActorID    string    `gorm:"type:varchar(255);not null"`
	Metadata   []byte    `gorm:"type:jsonb"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName overrides GORM's default naming to use "order_events".
func (EventDTO) TableName() string {
	return "order_events"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	price := o.Price()

	return OrderDTO{
		ID:             o.ID().Bytes(),
		OrderNumber:    o.OrderNumber(),
		IdempotencyKey: o.IdempotencyKey(),
		CustomerID:     o.CustomerID().Bytes(),

		PickupAddress: o.PickupAddress(),
		DropAddress:   o.DropAddress(),
		PickupLat:     o.PickupPoint().Lat(),
		PickupLng:     o.PickupPoint().Lng(),
		DropLat:       o.DropPoint().Lat(),
		DropLng:       o.DropPoint().Lng(),
		DistanceKM:    o.DistanceKM(),

		PackageSize: o.PackageSize().String(),

		PickupRiderID:   rawUUID(o.PickupRider()),
		DeliveryRiderID: rawUUID(o.DeliveryRider()),
		WarehouseID:     rawUUID(o.Warehouse()),
		RouteID:         rawUUID(o.Route()),

		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		PaymentMode:   o.PaymentMode().String(),

		BaseCost:             price.BaseCost(),
		SurgeMultiplier:      price.SurgeMultiplier(),
		AddonsCost:           price.AddonsCost(),
		BatchDiscount:        price.BatchDiscount(),
		SubscriptionDiscount: price.SubscriptionDiscount(),
		TotalCost:            price.TotalCost(),
		RiderSurgeBonus:      price.RiderSurgeBonus(),

		PickupVerified: o.IsPhaseVerified(order.PhasePickup),
		DropVerified:   o.IsPhaseVerified(order.PhaseDrop),

		Version: o.Version(),

		CreatedAt:   o.CreatedAt(),
		ConfirmedAt: o.ConfirmedAt(),
		ReceivedAt:  o.ReceivedAt(),
		DeliveredAt: o.DeliveredAt(),
		CancelledAt: o.CancelledAt(),
	}
}

// toDomain converts a database row back to an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	pickupPoint, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	dropPoint, err := kernel.NewGeoPoint(dto.DropLat, dto.DropLng)
	if err != nil {
		return nil, err
	}

	packageSize, err := kernel.PackageSizeFromString(dto.PackageSize)
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	paymentMode, err := order.PaymentModeFromString(dto.PaymentMode)
	if err != nil {
		return nil, err
	}

	pickupRiderID, err := domainUUID(dto.PickupRiderID)
	if err != nil {
		return nil, err
	}
	deliveryRiderID, err := domainUUID(dto.DeliveryRiderID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := domainUUID(dto.WarehouseID)
	if err != nil {
		return nil, err
	}
	routeID, err := domainUUID(dto.RouteID)
	if err != nil {
		return nil, err
	}

	price := order.RestorePriceBreakdown(
		dto.BaseCost,
		dto.SurgeMultiplier,
		dto.AddonsCost,
		dto.BatchDiscount,
		dto.SubscriptionDiscount,
		dto.TotalCost,
		dto.RiderSurgeBonus,
	)

	return order.RestoreOrder(
		id, dto.OrderNumber, dto.IdempotencyKey, customerID,
		dto.PickupAddress, dto.DropAddress,
		pickupPoint, dropPoint,
		dto.DistanceKM, packageSize,
		pickupRiderID, deliveryRiderID, warehouseID, routeID,
		status, paymentStatus, paymentMode, price,
		dto.PickupVerified, dto.DropVerified, dto.Version,
		dto.CreatedAt, dto.ConfirmedAt, dto.ReceivedAt, dto.DeliveredAt, dto.CancelledAt,
	), nil
}

// eventFromDomain converts an audit event to its database row.
func eventFromDomain(e order.Event) (EventDTO, error) {
	var fromStatus *string
	if e.FromStatus() != nil {
		s := e.FromStatus().String()
		fromStatus = &s
	}

	var metadata []byte
	if len(e.Metadata()) > 0 {
		raw, err := json.Marshal(e.Metadata())
		if err != nil {
			return EventDTO{}, err
		}
		metadata = raw
	}

	return EventDTO{
		ID:         e.ID().Bytes(),
		OrderID:    e.OrderID().Bytes(),
		FromStatus: fromStatus,
		ToStatus:   e.ToStatus().String(),
		Actor:      e.Actor().String(),
		ActorID:    e.ActorID(),
		Metadata:   metadata,
		OccurredAt: e.OccurredAt(),
	}, nil
}

// eventToDomain converts a database row back to an audit event.
func eventToDomain(dto EventDTO) (order.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Event{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.Event{}, err
	}

	var fromStatus *order.Status
	if dto.FromStatus != nil {
		s, fromErr := order.StatusFromString(*dto.FromStatus)
		if fromErr != nil {
			return order.Event{}, fromErr
		}
		fromStatus = &s
	}

	toStatus, err := order.StatusFromString(dto.ToStatus)
	if err != nil {
		return order.Event{}, err
	}
	actor, err := order.ActorFromString(dto.Actor)
	if err != nil {
		return order.Event{}, err
	}

	var metadata map[string]string
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return order.Event{}, err
		}
	}

	return order.RestoreEvent(
		id, orderID, fromStatus, toStatus, actor, dto.ActorID, metadata, dto.OccurredAt,
	), nil
}

func rawUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil //nil column maps to an unset reference
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
