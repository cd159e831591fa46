package subscription_test

import (
	"testing"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/subscription"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_Allowances(t *testing.T) {
	assert.Equal(t, 5, subscription.PlanStarter.FreeDeliveryAllowance())
	assert.Equal(t, 25, subscription.PlanBusiness.FreeDeliveryAllowance())
	assert.Equal(t, 999, subscription.PlanEnterprise.FreeDeliveryAllowance())

	assert.True(t, subscription.PlanStarter.PercentDiscount().IsZero())
	assert.True(t, subscription.PlanBusiness.PercentDiscount().
		Equal(decimal.RequireFromString("0.05")))
	assert.True(t, subscription.PlanEnterprise.PercentDiscount().
		Equal(decimal.RequireFromString("0.10")))
}

func TestNewSubscription(t *testing.T) {
	expires := time.Now().Add(30 * 24 * time.Hour)

	s, err := subscription.NewSubscription(
		kernel.NewUUID(), kernel.NewUUID(), subscription.PlanStarter, expires)

	require.NoError(t, err)
	assert.Equal(t, 5, s.RemainingFreeDeliveries())
	assert.True(t, s.IsActiveAt(time.Now()))
	assert.False(t, s.IsActiveAt(expires.Add(time.Hour)))
}

func TestNewSubscription_InvalidPlan(t *testing.T) {
	_, err := subscription.NewSubscription(
		kernel.NewUUID(), kernel.NewUUID(), subscription.PlanUnknown, time.Now())
	require.Error(t, err)
}

func TestSubscription_ConsumeFreeDelivery(t *testing.T) {
	s, err := subscription.NewSubscription(
		kernel.NewUUID(), kernel.NewUUID(), subscription.PlanStarter,
		time.Now().Add(time.Hour))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.ConsumeFreeDelivery())
	}

	assert.False(t, s.HasFreeDelivery())
	require.Error(t, s.ConsumeFreeDelivery())
	assert.Equal(t, 0, s.RemainingFreeDeliveries())
}

func TestRestoreSubscription(t *testing.T) {
	s := subscription.RestoreSubscription(
		kernel.NewUUID(), kernel.NewUUID(), subscription.PlanBusiness,
		3, time.Now().Add(time.Hour), 4)

	require.NoError(t, s.Validate())
	assert.Equal(t, 3, s.RemainingFreeDeliveries())
	assert.Equal(t, 4, s.Version())
}

func TestPlanFromString(t *testing.T) {
	p, err := subscription.PlanFromString("ENTERPRISE")
	require.NoError(t, err)
	assert.Equal(t, subscription.PlanEnterprise, p)

	_, err = subscription.PlanFromString("GOLD")
	require.Error(t, err)
}
