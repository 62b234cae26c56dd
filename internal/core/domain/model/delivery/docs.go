// Package delivery contains the Delivery aggregate and its satellite
// entities: the lifecycle status machine, matching candidates, the
// proof-of-delivery evidence record with OTP confirmation, and the
// append-only audit event trail.
//
// The aggregate enforces the lifecycle invariants: status moves only along
// the declarative transition table, the assigned courier is set exactly once
// (until cancellation) and only lifecycle actions by that courier are
// honored, and the matching attempt counter is bounded.
package delivery
