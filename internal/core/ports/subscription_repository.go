package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/subscription"
)

// SubscriptionRepository defines the persistence contract for customer
// subscriptions.
type SubscriptionRepository interface {
	// Add persists a new subscription.
	Add(ctx context.Context, aggregate *subscription.Subscription) error

	// Update persists allowance changes using the version stamp.
	// Returns StaleStateError on a version miss, which makes the
	// free-delivery decrement atomic with the order that consumed it.
	Update(ctx context.Context, aggregate *subscription.Subscription) error

	// GetActiveByCustomer retrieves the customer's current
	// subscription. Returns ObjectNotFoundError when the customer has
	// none.
	GetActiveByCustomer(ctx context.Context, customerID kernel.UUID) (*subscription.Subscription, error)
}
