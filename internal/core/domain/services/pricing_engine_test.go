package services_test

import (
	"testing"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/model/subscription"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func baseRequest() services.QuoteRequest {
	return services.QuoteRequest{
		DistanceKM:  10,
		PackageSize: kernel.PackageSizeSmall,
		Timing:      order.TimingStandard,
		Now:         time.Now(),
	}
}

func TestPricingEngine_BaseCost(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("distance times rate for a bike parcel", func(t *testing.T) {
		q, err := engine.Quote(baseRequest())

		require.NoError(t, err)
		assert.True(t, q.Price.BaseCost().Equal(dec("100")), q.Price.BaseCost().String())
		assert.True(t, q.Price.TotalCost().Equal(dec("100")))
	})

	t.Run("minimum charge floor on short trips", func(t *testing.T) {
		req := baseRequest()
		req.DistanceKM = 1.5 // 15 before the floor

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.Price.BaseCost().Equal(dec("35")))
	})

	t.Run("bulky parcel pays the mini truck multiplier", func(t *testing.T) {
		req := baseRequest()
		req.PackageSize = kernel.PackageSizeBulky

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.Price.BaseCost().Equal(dec("150")), q.Price.BaseCost().String())
	})

	t.Run("express timing scales the base", func(t *testing.T) {
		req := baseRequest()
		req.Timing = order.TimingExpress

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.Price.BaseCost().Equal(dec("180")), q.Price.BaseCost().String())
	})

	t.Run("next day timing discounts the base", func(t *testing.T) {
		req := baseRequest()
		req.Timing = order.TimingNextDay

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.Price.BaseCost().Equal(dec("90")), q.Price.BaseCost().String())
	})
}

func TestPricingEngine_Addons(t *testing.T) {
	engine := services.NewPricingEngine()
	req := baseRequest()
	req.Addons = []order.Addon{
		order.AddonPriorityHandling, // 30
		order.AddonPhotoProof,       // 10
		order.AddonInsurance25K,     // 75
	}

	q, err := engine.Quote(req)

	require.NoError(t, err)
	assert.True(t, q.Price.AddonsCost().Equal(dec("115")))
	assert.True(t, q.Price.TotalCost().Equal(dec("215")))
}

func TestPricingEngine_BatchDiscount(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("applies for flexible timing", func(t *testing.T) {
		req := baseRequest()
		req.BatchEligible = true

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.Price.BatchDiscount().Equal(dec("15")))
		assert.True(t, q.Price.TotalCost().Equal(dec("85")))
	})

	t.Run("never applies to express even when flagged", func(t *testing.T) {
		req := baseRequest()
		req.BatchEligible = true
		req.Timing = order.TimingExpress

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.Price.BatchDiscount().IsZero())
	})

	t.Run("does not apply without the flag", func(t *testing.T) {
		q, err := engine.Quote(baseRequest())

		require.NoError(t, err)
		assert.True(t, q.Price.BatchDiscount().IsZero())
	})
}

func TestPricingEngine_Surge(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("multiplier is frozen on the breakdown", func(t *testing.T) {
		req := baseRequest()
		req.SurgeMultiplier = dec("1.4")

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.Price.SurgeMultiplier().Equal(dec("1.4")))
		assert.True(t, q.Price.TotalCost().Equal(dec("140")))
		assert.True(t, q.Price.RiderSurgeBonus().Equal(dec("12")),
			"rider gets 30 percent of the 40 premium")
	})

	t.Run("zero-valued surge defaults to 1", func(t *testing.T) {
		q, err := engine.Quote(baseRequest())

		require.NoError(t, err)
		assert.True(t, q.Price.SurgeMultiplier().Equal(dec("1")))
	})
}

func TestPricingEngine_Subscription(t *testing.T) {
	engine := services.NewPricingEngine()
	now := time.Now()

	activeSub := func(plan subscription.Plan, remaining int) *subscription.Subscription {
		return subscription.RestoreSubscription(
			kernel.NewUUID(), kernel.NewUUID(), plan, remaining,
			now.Add(24*time.Hour), 1)
	}

	t.Run("free delivery covers the surged base", func(t *testing.T) {
		req := baseRequest()
		req.SurgeMultiplier = dec("1.4")
		req.Subscription = activeSub(subscription.PlanStarter, 3)
		req.Now = now

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.True(t, q.FreeDelivery)
		assert.True(t, q.Price.SubscriptionDiscount().Equal(dec("140")))
		assert.True(t, q.Price.TotalCost().IsZero())
	})

	t.Run("percentage tier after the allowance is spent", func(t *testing.T) {
		req := baseRequest()
		req.Subscription = activeSub(subscription.PlanBusiness, 0)
		req.Now = now

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.False(t, q.FreeDelivery)
		assert.True(t, q.Price.SubscriptionDiscount().Equal(dec("5")))
		assert.True(t, q.Price.TotalCost().Equal(dec("95")))
	})

	t.Run("expired subscription is ignored", func(t *testing.T) {
		req := baseRequest()
		req.Subscription = subscription.RestoreSubscription(
			kernel.NewUUID(), kernel.NewUUID(), subscription.PlanStarter, 5,
			now.Add(-time.Hour), 1)
		req.Now = now

		q, err := engine.Quote(req)

		require.NoError(t, err)
		assert.False(t, q.FreeDelivery)
		assert.True(t, q.Price.SubscriptionDiscount().IsZero())
	})
}

// The stored breakdown must satisfy
// total = base*surge + addons - batch - subscription, clamped at zero,
// across input combinations.
func TestPricingEngine_InvariantHolds(t *testing.T) {
	engine := services.NewPricingEngine()
	now := time.Now()

	surges := []decimal.Decimal{dec("1"), dec("1.2"), dec("1.4"), dec("1.6")}
	timings := []order.TimingWindow{
		order.TimingNextDay, order.TimingStandard, order.TimingSameDay, order.TimingExpress,
	}

	for _, surge := range surges {
		for _, timing := range timings {
			for _, eligible := range []bool{true, false} {
				req := baseRequest()
				req.SurgeMultiplier = surge
				req.Timing = timing
				req.BatchEligible = eligible
				req.Addons = []order.Addon{order.AddonReturnService}
				req.Subscription = subscription.RestoreSubscription(
					kernel.NewUUID(), kernel.NewUUID(), subscription.PlanEnterprise, 0,
					now.Add(time.Hour), 1)
				req.Now = now

				q, err := engine.Quote(req)
				require.NoError(t, err)

				p := q.Price
				expected := p.BaseCost().Mul(p.SurgeMultiplier()).
					Add(p.AddonsCost()).
					Sub(p.BatchDiscount()).
					Sub(p.SubscriptionDiscount())
				if expected.IsNegative() {
					expected = decimal.Zero
				}

				assert.True(t, p.TotalCost().Equal(expected.Round(2)),
					"surge=%s timing=%s eligible=%v: total %s != %s",
					surge, timing, eligible, p.TotalCost(), expected)
				assert.False(t, p.TotalCost().IsNegative())
			}
		}
	}
}

func TestPricingEngine_InvalidInputs(t *testing.T) {
	engine := services.NewPricingEngine()

	t.Run("zero distance", func(t *testing.T) {
		req := baseRequest()
		req.DistanceKM = 0
		_, err := engine.Quote(req)
		require.ErrorIs(t, err, errs.ErrPricingInputInvalid)
	})

	t.Run("unknown size", func(t *testing.T) {
		req := baseRequest()
		req.PackageSize = kernel.PackageSizeUnknown
		_, err := engine.Quote(req)
		require.ErrorIs(t, err, errs.ErrPricingInputInvalid)
	})

	t.Run("unknown timing", func(t *testing.T) {
		req := baseRequest()
		req.Timing = order.TimingUnknown
		_, err := engine.Quote(req)
		require.ErrorIs(t, err, errs.ErrPricingInputInvalid)
	})

	t.Run("unknown addon", func(t *testing.T) {
		req := baseRequest()
		req.Addons = []order.Addon{order.AddonUnknown}
		_, err := engine.Quote(req)
		require.ErrorIs(t, err, errs.ErrPricingInputInvalid)
	})
}

func TestPricingEngine_Deterministic(t *testing.T) {
	engine := services.NewPricingEngine()
	req := baseRequest()
	req.SurgeMultiplier = dec("1.2")
	req.BatchEligible = true
	req.Addons = []order.Addon{order.AddonScheduledSlot}

	first, err := engine.Quote(req)
	require.NoError(t, err)
	second, err := engine.Quote(req)
	require.NoError(t, err)

	assert.True(t, first.Price.TotalCost().Equal(second.Price.TotalCost()))
	assert.True(t, first.Price.BaseCost().Equal(second.Price.BaseCost()))
}
