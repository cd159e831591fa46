package rider_test

import (
	"testing"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/rider"
	"parcelhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRider(t *testing.T, capacity int) *rider.Rider {
	t.Helper()
	r, err := rider.NewRider(
		kernel.NewUUID(), "Asha", kernel.NewUUID(), kernel.VehicleBike, capacity)
	require.NoError(t, err)
	return r
}

func TestNewRider(t *testing.T) {
	r := testRider(t, 5)

	assert.Equal(t, rider.StatusOffline, r.Status())
	assert.Equal(t, 0, r.CurrentLoad())
	assert.Equal(t, 5, r.RemainingCapacity())
	assert.Nil(t, r.Location())
	assert.False(t, r.IsAvailable())
}

func TestNewRider_Validation(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := rider.NewRider(
			kernel.NewUUID(), "", kernel.NewUUID(), kernel.VehicleBike, 5)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero capacity", func(t *testing.T) {
		_, err := rider.NewRider(
			kernel.NewUUID(), "Asha", kernel.NewUUID(), kernel.VehicleBike, 0)
		require.Error(t, err)
	})

	t.Run("invalid vehicle", func(t *testing.T) {
		_, err := rider.NewRider(
			kernel.NewUUID(), "Asha", kernel.NewUUID(), kernel.VehicleUnknown, 5)
		require.Error(t, err)
	})
}

func TestRider_AssignParcel_EnforcesCapacity(t *testing.T) {
	r := testRider(t, 2)

	require.NoError(t, r.AssignParcel())
	require.NoError(t, r.AssignParcel())

	err := r.AssignParcel()
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)
	assert.Equal(t, 2, r.CurrentLoad())
}

func TestRider_ReleaseParcel(t *testing.T) {
	r := testRider(t, 2)
	require.NoError(t, r.AssignParcel())

	r.ReleaseParcel()
	assert.Equal(t, 0, r.CurrentLoad())

	// never below zero
	r.ReleaseParcel()
	assert.Equal(t, 0, r.CurrentLoad())
}

func TestRider_IsAvailable(t *testing.T) {
	r := testRider(t, 1)

	require.NoError(t, r.SetStatus(rider.StatusAvailable))
	assert.True(t, r.IsAvailable())

	require.NoError(t, r.AssignParcel())
	assert.False(t, r.IsAvailable(), "full rider is not available")

	r.ReleaseParcel()
	require.NoError(t, r.SetStatus(rider.StatusOnDelivery))
	assert.False(t, r.IsAvailable())
}

func TestRider_SetStatus_OfflineWithLoadRejected(t *testing.T) {
	r := testRider(t, 2)
	require.NoError(t, r.SetStatus(rider.StatusAvailable))
	require.NoError(t, r.AssignParcel())

	err := r.SetStatus(rider.StatusOffline)

	require.Error(t, err)
	assert.Equal(t, rider.StatusAvailable, r.Status())
}

func TestRider_UpdateLocation(t *testing.T) {
	r := testRider(t, 2)
	point, err := kernel.NewGeoPoint(23.0225, 72.5714)
	require.NoError(t, err)
	now := time.Now()

	require.NoError(t, r.UpdateLocation(point, now))

	require.NotNil(t, r.Location())
	equal, err := r.Location().IsEqual(point)
	require.NoError(t, err)
	assert.True(t, equal)
	require.NotNil(t, r.LocationAt())
	assert.Equal(t, now, *r.LocationAt())

	var zero kernel.GeoPoint
	require.Error(t, r.UpdateLocation(zero, now))
}

func TestRider_CanCarry(t *testing.T) {
	r := testRider(t, 2)

	assert.True(t, r.CanCarry(kernel.PackageSizeSmall))
	assert.False(t, r.CanCarry(kernel.PackageSizeBulky))
}

func TestRider_ZeroValueIsInvalid(t *testing.T) {
	var r rider.Rider
	require.ErrorIs(t, r.Validate(), rider.ErrRiderIsNotConstructed)
}

func TestRestoreRider(t *testing.T) {
	id := kernel.NewUUID()
	warehouseID := kernel.NewUUID()

	r := rider.RestoreRider(
		id, "Asha", warehouseID, kernel.VehicleMiniVan,
		rider.StatusAvailable, 2, 5, nil, nil, 3)

	require.NoError(t, r.Validate())
	assert.Equal(t, 3, r.RemainingCapacity())
	assert.Equal(t, 3, r.Version())
	assert.True(t, r.IsAvailable())
}

func TestRiderStatusFromString(t *testing.T) {
	s, err := rider.StatusFromString("ON_DELIVERY")
	require.NoError(t, err)
	assert.Equal(t, rider.StatusOnDelivery, s)

	_, err = rider.StatusFromString("NAPPING")
	require.Error(t, err)
}
