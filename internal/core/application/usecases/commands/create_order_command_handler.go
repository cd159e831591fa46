package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/subscription"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for booking a
// delivery: geocode both addresses, estimate the road distance, freeze
// the surge multiplier, price the five cost streams and persist the
// order with its creation audit event. The subscription allowance, when
// a free delivery covers the order, is consumed in the same transaction.
//
// Retried requests are resolved by the idempotency key: the handler
// returns the previously created order instead of booking a second one,
// whether the duplicate is seen before or during the insert.
//
// The insert can also lose a race on the day's order-number sequence to
// a concurrent booking under a different key; that collision re-mints
// the number and books again rather than failing the request.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	geocoder   ports.Geocoder
	distances  ports.DistanceSource
	pricing    services.PricingEngine
	surge      *services.SurgeZoneTracker
}

// NewCreateOrderCommandHandler creates a handler for order booking.
func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	geocoder ports.Geocoder,
	distances ports.DistanceSource,
	pricing services.PricingEngine,
	surge *services.SurgeZoneTracker,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		distances:  distances,
		pricing:    pricing,
		surge:      surge,
	}
}

// bookAttempts bounds the re-mint loop when concurrent bookings keep
// claiming the same day-sequence order numbers.
const bookAttempts = 3

// Handle processes the booking command and returns the created order.
// When the idempotency key was already used, the existing order is
// returned unchanged and nothing is written.
func (h *CreateOrderCommandHandler) Handle(
	ctx context.Context, cmd CreateOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()

	// Geocoding and distance estimation do I/O, so they run before any
	// transaction opens.
	pickup, err := h.geocoder.Resolve(ctx, cmd.PickupAddress())
	if err != nil {
		return nil, fmt.Errorf("resolving pickup address: %w", err)
	}
	drop, err := h.geocoder.Resolve(ctx, cmd.DropAddress())
	if err != nil {
		return nil, fmt.Errorf("resolving drop address: %w", err)
	}
	travel, err := h.distances.Estimate(ctx, pickup.Point, drop.Point)
	if err != nil {
		return nil, fmt.Errorf("estimating travel: %w", err)
	}

	// The storage layer cannot tell which unique index a duplicate hit:
	// the idempotency key or the order number. A re-read disambiguates.
	// When the winner holds the same key it is returned; when the key is
	// absent the collision was the day sequence and booking retries with
	// a fresh count on a fresh transaction.
	for attempt := 0; attempt < bookAttempts; attempt++ {
		created, bookErr := h.book(ctx, cmd, pickup, drop, travel, now)
		if bookErr == nil {
			return created, nil
		}
		if !errors.Is(bookErr, errs.ErrDuplicateIdempotencyKey) {
			return nil, bookErr
		}
		err = bookErr

		existing, fetchErr := h.fetchExisting(ctx, cmd.IdempotencyKey())
		if fetchErr == nil {
			return existing, nil
		}
		if !errors.Is(fetchErr, errs.ErrObjectNotFound) {
			return nil, fetchErr
		}
	}
	return nil, err
}

// book runs one booking transaction: duplicate pre-check, subscription
// lookup, quote, order-number mint and insert.
func (h *CreateOrderCommandHandler) book(
	ctx context.Context,
	cmd CreateOrderCommand,
	pickup ports.ResolvedAddress,
	drop ports.ResolvedAddress,
	travel ports.TravelEstimate,
	now time.Time,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.GetByIdempotencyKey(ctx, cmd.IdempotencyKey())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	sub, err := h.activeSubscription(ctx, uow, cmd, now)
	if err != nil {
		return nil, err
	}

	quote, err := h.pricing.Quote(services.QuoteRequest{
		DistanceKM:      travel.DistanceKM,
		PackageSize:     cmd.PackageSize(),
		Timing:          cmd.Timing(),
		Addons:          cmd.Addons(),
		SurgeMultiplier: h.surge.MultiplierFor(pickup.Point),
		BatchEligible:   true,
		Subscription:    sub,
		Now:             now,
	})
	if err != nil {
		return nil, err
	}

	if quote.FreeDelivery {
		if err = sub.ConsumeFreeDelivery(); err != nil {
			return nil, err
		}
		if err = uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return nil, err
		}
	}

	orderNumber, err := h.nextOrderNumber(ctx, orderRepo, now)
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(
		cmd.OrderID(),
		orderNumber,
		cmd.IdempotencyKey(),
		cmd.CustomerID(),
		cmd.PickupAddress(),
		cmd.DropAddress(),
		pickup.Point,
		drop.Point,
		travel.DistanceKM,
		cmd.PackageSize(),
		cmd.PaymentMode(),
		quote.Price,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// activeSubscription loads the customer's subscription, returning nil
// when the customer has none or it has lapsed.
func (h *CreateOrderCommandHandler) activeSubscription(
	ctx context.Context, uow CreateOrderUoW, cmd CreateOrderCommand, now time.Time,
) (*subscription.Subscription, error) {
	sub, err := uow.SubscriptionRepository().GetActiveByCustomer(ctx, cmd.CustomerID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !sub.IsActiveAt(now) {
		return nil, nil
	}
	return sub, nil
}

// nextOrderNumber mints the day's next human-readable sequence,
// DLV-YYMMDD-XXXX.
func (h *CreateOrderCommandHandler) nextOrderNumber(
	ctx context.Context, repo ports.OrderRepository, now time.Time,
) (string, error) {
	count, err := repo.CountCreatedOn(ctx, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DLV-%s-%04d", now.Format("060102"), count+1), nil
}

func (h *CreateOrderCommandHandler) fetchExisting(
	ctx context.Context, idempotencyKey string,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetByIdempotencyKey(ctx, idempotencyKey)
}
