// Package kernel provides core domain primitives for the parcel
// coordination system, following Domain-Driven Design principles.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and
//     comparison capabilities
//   - GeoPoint: a validated geographic coordinate with road-distance
//     estimation and cache-key hashing
//
// These primitives enforce domain invariants at construction time and
// are immutable and safe for concurrent use.
package kernel
