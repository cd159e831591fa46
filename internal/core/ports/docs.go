// Package ports defines the interfaces between the application core and
// the outside world: repositories, the unit of work, the geo resolvers
// and the OTP store. Adapters implement these; the core only depends on
// the contracts.
package ports
