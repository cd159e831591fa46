package kernel

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"

	"parcelhub/internal/pkg/errs"

	"parcelhub/internal/pkg/guard"
)

// Geographic bounds for a valid coordinate.
const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

const (
	earthRadiusKM = 6371.0
	// roadFactor approximates real road distance from the straight-line
	// haversine distance in a dense city grid.
	roadFactor = 1.4
	// AverageCitySpeedKMH is the assumed rider speed for duration estimates.
	AverageCitySpeedKMH = 25.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an
// improperly initialized GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a validated geographic coordinate (latitude,
// longitude in decimal degrees). GeoPoint is an immutable value object;
// the zero value is invalid and must be constructed via NewGeoPoint.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(23.0225, 72.5714)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(p) // GeoPoint(23.022500,72.571400)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint after validating that latitude is within
// [-90, 90] and longitude within [-180, 180].
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the GeoPoint was built through NewGeoPoint.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in decimal degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lng)
}

// IsEqual compares two points for coordinate equality. Both points must be
// properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// RoadDistanceKM estimates the driving distance in kilometers to another
// point: the haversine great-circle distance scaled by the road factor.
// Used whenever the external routing source is unavailable and for all
// route-batching geometry, where relative distances matter more than
// absolute ones.
func (p GeoPoint) RoadDistanceKM(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := radians(other.lat - p.lat)
	dLng := radians(other.lng - p.lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(p.lat))*math.Cos(radians(other.lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(earthRadiusKM * c * roadFactor), nil
}

// Hash returns a short stable cache key for the point: the first 16 hex
// characters of sha256 over the coordinates truncated to 4 decimal places
// (roughly 11 m of precision, enough to collapse nearby lookups).
func (p GeoPoint) Hash() string {
	key := fmt.Sprintf("%.4f,%.4f", p.lat, p.lng)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// EstimateDurationMin converts a distance to an estimated travel time in
// minutes at the average city speed, never less than one minute.
func EstimateDurationMin(distanceKM float64) int {
	minutes := int(distanceKM / AverageCitySpeedKMH * 60)
	if minutes < 1 {
		return 1
	}
	return minutes
}

// AddressHash returns the cache key for a free-form address: the first 16
// hex characters of sha256 over the normalized (trimmed, lower-cased,
// space-collapsed) address text.
func AddressHash(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// setLat sets the latitude with validation.
// Note: private setters use pointer receivers to enable self-encapsulated
// validation during construction, while the public API stays value-based.
func (p *GeoPoint) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

// setLng sets the longitude with validation.
func (p *GeoPoint) setLng(lng float64) error {
	if lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	p.lng = lng
	return nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
