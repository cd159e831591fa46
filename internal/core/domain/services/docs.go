// Package services provides domain services that orchestrate business
// operations across multiple domain entities. It implements workflows
// that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - PricingEngine: deterministic composition of the five cost streams
//     into an itemized price breakdown
//   - SurgeZoneTracker: per-zone demand/supply multipliers, recomputed
//     on a schedule and read by pricing
//   - RouteBatcher: capacitated greedy route construction with bounded
//     local improvement and return-trip pickup folding
//
// All three are pure over their inputs; persistence and transport stay
// in the application and adapter layers.
package services
