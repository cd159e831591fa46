package kernel

import (
	"fmt"

	"parcelhub/internal/pkg/errs"
)

// PackageSize classifies a parcel by the handling class it needs.
// The size class determines which vehicle class must carry it.
type PackageSize int

const (
	// PackageSizeUnknown represents an invalid or undefined size.
	PackageSizeUnknown PackageSize = iota

	// PackageSizeSmall fits in a bike courier bag.
	PackageSizeSmall

	// PackageSizeMedium fits in a bike courier bag.
	PackageSizeMedium

	// PackageSizeLarge requires at least a mini van.
	PackageSizeLarge

	// PackageSizeBulky requires at least a mini truck.
	PackageSizeBulky
)

func getPackageSizeStrings() map[PackageSize]string {
	return map[PackageSize]string{
		PackageSizeUnknown: "UNKNOWN",
		PackageSizeSmall:   "SMALL",
		PackageSizeMedium:  "MEDIUM",
		PackageSizeLarge:   "LARGE",
		PackageSizeBulky:   "BULKY",
	}
}

// PackageSizeFromString parses a size class from its persisted form.
func PackageSizeFromString(s string) (PackageSize, error) {
	for size, str := range getPackageSizeStrings() {
		if str == s && size != PackageSizeUnknown {
			return size, nil
		}
	}
	return PackageSizeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"package size is invalid", fmt.Errorf("%q is not a valid package size", s))
}

// Validate checks if the PackageSize value is valid.
func (p PackageSize) Validate() error {
	if p == PackageSizeUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"package size is invalid", fmt.Errorf("%d is not a valid package size", p))
	}
	if _, ok := getPackageSizeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"package size is invalid", fmt.Errorf("%d is not a valid package size", p))
	}
	return nil
}

// String implements fmt.Stringer.
func (p PackageSize) String() string {
	if str, ok := getPackageSizeStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}

// RequiredVehicle returns the smallest vehicle class able to carry a
// parcel of this size.
func (p PackageSize) RequiredVehicle() VehicleClass {
	switch p {
	case PackageSizeLarge:
		return VehicleMiniVan
	case PackageSizeBulky:
		return VehicleMiniTruck
	case PackageSizeSmall, PackageSizeMedium:
		return VehicleBike
	default:
		return VehicleBike
	}
}

// VehicleClass classifies a rider's vehicle. Larger classes can carry
// everything a smaller class can; the class also drives the per-km price
// multiplier applied by the pricing engine.
type VehicleClass int

const (
	// VehicleUnknown represents an invalid or undefined vehicle class.
	VehicleUnknown VehicleClass = iota

	// VehicleBike handles small and medium parcels.
	VehicleBike

	// VehicleMiniVan handles up to large parcels.
	VehicleMiniVan

	// VehicleMiniTruck handles up to bulky parcels.
	VehicleMiniTruck

	// VehicleTruck handles any parcel.
	VehicleTruck
)

func getVehicleClassStrings() map[VehicleClass]string {
	return map[VehicleClass]string{
		VehicleUnknown:   "UNKNOWN",
		VehicleBike:      "BIKE",
		VehicleMiniVan:   "MINI_VAN",
		VehicleMiniTruck: "MINI_TRUCK",
		VehicleTruck:     "TRUCK",
	}
}

// VehicleClassFromString parses a vehicle class from its persisted form.
func VehicleClassFromString(s string) (VehicleClass, error) {
	for class, str := range getVehicleClassStrings() {
		if str == s && class != VehicleUnknown {
			return class, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"vehicle class is invalid", fmt.Errorf("%q is not a valid vehicle class", s))
}

// Validate checks if the VehicleClass value is valid.
func (v VehicleClass) Validate() error {
	if v == VehicleUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"vehicle class is invalid", fmt.Errorf("%d is not a valid vehicle class", v))
	}
	if _, ok := getVehicleClassStrings()[v]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"vehicle class is invalid", fmt.Errorf("%d is not a valid vehicle class", v))
	}
	return nil
}

// String implements fmt.Stringer.
func (v VehicleClass) String() string {
	if str, ok := getVehicleClassStrings()[v]; ok {
		return str
	}
	return "UNKNOWN"
}

// CanCarry reports whether this vehicle class can carry a parcel of the
// given size. Classes are ordered, so a truck can carry anything a bike
// can.
func (v VehicleClass) CanCarry(size PackageSize) bool {
	if v.Validate() != nil || size.Validate() != nil {
		return false
	}
	return v >= size.RequiredVehicle()
}
