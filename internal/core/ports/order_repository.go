package ports

import (
	"context"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates
// and their audit trail. Add and Update persist the order's drained
// events in the same transaction as the order row.
type OrderRepository interface {
	// Add persists a new order aggregate to storage. Fails on a
	// duplicate idempotency key; callers resolve that by re-reading
	// with GetByIdempotencyKey.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using the
	// version stamp. Returns StaleStateError when the stored version no
	// longer matches the aggregate's.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByIdempotencyKey retrieves the order created under the given
	// key. Returns ObjectNotFoundError when the key was never used.
	GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)

	// GetAllAtWarehouse retrieves the orders held at one warehouse in
	// AT_WAREHOUSE status, oldest first. This is the batcher's input
	// snapshot.
	GetAllAtWarehouse(ctx context.Context, warehouseID kernel.UUID) ([]*order.Order, error)

	// GetAllActive retrieves orders in non-terminal, non-warehouse-held
	// statuses. The surge recompute scan reads pickup points from this.
	GetAllActive(ctx context.Context) ([]*order.Order, error)

	// GetEvents retrieves an order's audit trail, oldest first.
	GetEvents(ctx context.Context, orderID kernel.UUID) ([]order.Event, error)

	// CountCreatedOn returns how many orders were created on the given
	// day. Used to mint the next human-readable order number.
	CountCreatedOn(ctx context.Context, day time.Time) (int, error)
}
