// Package subscriptionrepo persists customer subscriptions. The
// remaining-free counter shares its row with the version stamp so the
// free-delivery decrement commits atomically with the order that used it.
package subscriptionrepo

import (
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/subscription"

	"github.com/google/uuid"
)

// SubscriptionDTO is the database representation of a subscription.
type SubscriptionDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Plan          string    `gorm:"type:varchar(16);not null"`
	RemainingFree int       `gorm:"not null"`
	ExpiresAt     time.Time `gorm:"not null"`
	Version       int       `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "subscriptions".
func (SubscriptionDTO) TableName() string {
	return "subscriptions"
}

// fromDomain converts a subscription aggregate to its database
// representation.
func fromDomain(s *subscription.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:            s.ID().Bytes(),
		CustomerID:    s.Customer().Bytes(),
		Plan:          s.Plan().String(),
		RemainingFree: s.RemainingFreeDeliveries(),
		ExpiresAt:     s.ExpiresAt(),
		Version:       s.Version(),
	}
}

// toDomain converts a database row back to a subscription aggregate.
func toDomain(dto SubscriptionDTO) (*subscription.Subscription, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	plan, err := subscription.PlanFromString(dto.Plan)
	if err != nil {
		return nil, err
	}

	return subscription.RestoreSubscription(
		id, customerID, plan, dto.RemainingFree, dto.ExpiresAt, dto.Version,
	), nil
}
