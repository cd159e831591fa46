package queries_test

import (
	"context"
	"testing"

	"parcelhub/internal/core/application/usecases/queries"
	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/domain/model/order"
	"parcelhub/internal/core/domain/services"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	points map[string]kernel.GeoPoint
}

func (s *stubGeocoder) Resolve(_ context.Context, address string) (ports.ResolvedAddress, error) {
	p, ok := s.points[address]
	if !ok {
		return ports.ResolvedAddress{}, errs.NewObjectNotFoundError("address", address)
	}
	return ports.ResolvedAddress{Point: p, Formatted: address}, nil
}

type stubDistanceSource struct{}

func (stubDistanceSource) Estimate(
	_ context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint,
) (ports.TravelEstimate, error) {
	d, err := origin.RoadDistanceKM(destination)
	if err != nil {
		return ports.TravelEstimate{}, err
	}
	return ports.TravelEstimate{
		DistanceKM:  d,
		DurationMin: kernel.EstimateDurationMin(d),
	}, nil
}

func TestNewEstimatePriceQuery_Valid(t *testing.T) {
	query, err := queries.NewEstimatePriceQuery(
		"12 Hill Road", "3 Lake View",
		kernel.PackageSizeSmall, order.TimingStandard,
		[]order.Addon{order.AddonPhotoProof})
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, "12 Hill Road", query.PickupAddress())
	assert.Equal(t, []order.Addon{order.AddonPhotoProof}, query.Addons())
}

func TestNewEstimatePriceQuery_MissingAddress(t *testing.T) {
	_, err := queries.NewEstimatePriceQuery(
		"", "3 Lake View", kernel.PackageSizeSmall, order.TimingStandard, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewEstimatePriceQuery_InvalidAddon(t *testing.T) {
	_, err := queries.NewEstimatePriceQuery(
		"12 Hill Road", "3 Lake View",
		kernel.PackageSizeSmall, order.TimingStandard,
		[]order.Addon{order.AddonUnknown})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestEstimatePriceQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.EstimatePriceQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrEstimatePriceQueryIsNotConstructed)
}

func TestEstimatePriceQueryHandler_QuotesWithoutPersisting(t *testing.T) {
	pickup, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)
	drop, err := kernel.NewGeoPoint(12.9352, 77.6245)
	require.NoError(t, err)

	handler := queries.NewEstimatePriceQueryHandler(
		&stubGeocoder{points: map[string]kernel.GeoPoint{
			"12 Hill Road": pickup,
			"3 Lake View":  drop,
		}},
		stubDistanceSource{},
		services.NewPricingEngine(),
		services.NewSurgeZoneTracker(nil),
	)

	query, err := queries.NewEstimatePriceQuery(
		"12 Hill Road", "3 Lake View",
		kernel.PackageSizeSmall, order.TimingStandard,
		[]order.Addon{order.AddonPhotoProof})
	require.NoError(t, err)

	estimate, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)

	assert.Greater(t, estimate.DistanceKM, 0.0)
	assert.Greater(t, estimate.EstimatedDurationMin, 0)
	assert.True(t, estimate.SurgeMultiplier.Equal(decimal.NewFromInt(1)),
		"no zones, no surge")
	assert.True(t, estimate.AddonsCost.Equal(decimal.NewFromInt(10)))
	// total = base*surge + addons - batch - subscription
	expected := estimate.BaseCost.Mul(estimate.SurgeMultiplier).
		Add(estimate.AddonsCost).
		Sub(estimate.BatchDiscount).
		Sub(estimate.SubscriptionDiscount)
	assert.True(t, expected.Equal(estimate.TotalCost),
		"want %s, got %s", expected, estimate.TotalCost)
}

func TestEstimatePriceQueryHandler_UnresolvableAddress(t *testing.T) {
	handler := queries.NewEstimatePriceQueryHandler(
		&stubGeocoder{points: map[string]kernel.GeoPoint{}},
		stubDistanceSource{},
		services.NewPricingEngine(),
		services.NewSurgeZoneTracker(nil),
	)

	query, err := queries.NewEstimatePriceQuery(
		"nowhere", "3 Lake View", kernel.PackageSizeSmall, order.TimingStandard, nil)
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), query)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
