package ports

import (
	"context"

	"parcelhub/internal/core/domain/model/handoff"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
)

// OTPRepository stores handoff OTP records keyed by (order, phase).
// Save overwrites wholesale, which is how re-issuing resets the attempt
// counter, and the store only ever sees the code hash.
type OTPRepository interface {
	// Save stores or replaces the record for its (order, phase) key.
	Save(ctx context.Context, record *handoff.Record) error

	// Get retrieves the record for (order, phase). Returns
	// ObjectNotFoundError when no code has been issued.
	Get(ctx context.Context, orderID kernel.UUID, phase order.HandoffPhase) (*handoff.Record, error)

	// Delete removes the record once its phase has been verified.
	Delete(ctx context.Context, orderID kernel.UUID, phase order.HandoffPhase) error
}
