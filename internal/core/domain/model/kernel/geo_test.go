package kernel_test

import (
	"testing"

	"parcelhub/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid point", 23.0225, 72.5714, false},
		{"boundary north pole", 90, 0, false},
		{"boundary south pole", -90, 0, false},
		{"boundary date line", 0, 180, false},
		{"latitude too high", 90.0001, 0, true},
		{"latitude too low", -91, 0, true},
		{"longitude too high", 0, 180.5, true},
		{"longitude too low", 0, -181, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.InDelta(t, tt.lat, p.Lat(), 0)
			assert.InDelta(t, tt.lng, p.Lng(), 0)
		})
	}
}

func TestGeoPoint_ZeroValueIsInvalid(t *testing.T) {
	var p kernel.GeoPoint
	require.Error(t, p.Validate())
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, err := kernel.NewGeoPoint(23.0225, 72.5714)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(23.0225, 72.5714)
	require.NoError(t, err)
	c, err := kernel.NewGeoPoint(23.0226, 72.5714)
	require.NoError(t, err)

	equal, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, equal)

	var zero kernel.GeoPoint
	_, err = a.IsEqual(zero)
	require.Error(t, err)
}

func TestGeoPoint_RoadDistanceKM(t *testing.T) {
	t.Run("distance to self is zero", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(23.0225, 72.5714)
		require.NoError(t, err)

		d, err := p.RoadDistanceKM(p)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 0.001)
	})

	t.Run("is symmetric", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(23.0225, 72.5714)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(23.0395, 72.5660)
		require.NoError(t, err)

		ab, err := a.RoadDistanceKM(b)
		require.NoError(t, err)
		ba, err := b.RoadDistanceKM(a)
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 0.001)
	})

	t.Run("applies road factor over great circle", func(t *testing.T) {
		// One degree of latitude is roughly 111.2 km of great-circle
		// distance, so the road estimate is about 111.2 * 1.4.
		a, err := kernel.NewGeoPoint(0, 0)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(1, 0)
		require.NoError(t, err)

		d, err := a.RoadDistanceKM(b)
		require.NoError(t, err)
		assert.InDelta(t, 155.7, d, 0.5)
	})

	t.Run("zero value point fails", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(1, 1)
		require.NoError(t, err)

		var zero kernel.GeoPoint
		_, err = p.RoadDistanceKM(zero)
		require.Error(t, err)
	})
}

func TestGeoPoint_Hash(t *testing.T) {
	t.Run("stable and 16 chars", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(23.0225, 72.5714)
		require.NoError(t, err)

		h := p.Hash()
		assert.Len(t, h, 16)
		assert.Equal(t, h, p.Hash())
	})

	t.Run("collapses sub 4-decimal differences", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(23.02250001, 72.5714)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(23.02250002, 72.5714)
		require.NoError(t, err)

		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("distinct points differ", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(23.0225, 72.5714)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(23.0395, 72.5660)
		require.NoError(t, err)

		assert.NotEqual(t, a.Hash(), b.Hash())
	})
}

func TestAddressHash(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		a := kernel.AddressHash("  12 MG Road,   Bangalore ")
		b := kernel.AddressHash("12 mg road, bangalore")

		assert.Equal(t, a, b)
		assert.Len(t, a, 16)
	})

	t.Run("distinct addresses differ", func(t *testing.T) {
		assert.NotEqual(t,
			kernel.AddressHash("12 MG Road, Bangalore"),
			kernel.AddressHash("14 MG Road, Bangalore"))
	})
}

func TestEstimateDurationMin(t *testing.T) {
	assert.Equal(t, 1, kernel.EstimateDurationMin(0))
	assert.Equal(t, 1, kernel.EstimateDurationMin(0.3))
	assert.Equal(t, 12, kernel.EstimateDurationMin(5))
	assert.Equal(t, 24, kernel.EstimateDurationMin(10))
}
