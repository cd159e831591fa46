// Package order contains the Order aggregate and its state machine.
//
// The aggregate is the only writer of order status. Transitions follow
// an explicit successor table gated by actor class, custody-transfer
// edges additionally require OTP verification, and every accepted
// transition appends an immutable audit Event. The price breakdown is
// frozen at creation and carried on the order for auditability.
package order
