// Package rider contains the Rider aggregate: operational status,
// vehicle class eligibility and the capacity-bounded load counter.
package rider
