// Package guard provides a small defensive-programming helper that lets domain
// objects detect whether they were created through their designated constructor
// or left as a zero value.
//
// Embedding a ConstructorGuard in a struct and checking it in Validate()
// ensures aggregates, value objects, and commands are never used in a
// half-initialized state. This keeps invariant enforcement at construction
// time, which is central to the domain model in this repository.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when a
// nil validation error is supplied, so that validation always fails with a
// meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// constructor. The zero value is "not constructed" and fails validation.
//
// Example:
//
//	type Coverage struct {
//	    radiusKm float64
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewCoverage(radiusKm float64) (Coverage, error) {
//	    // ... validation ...
//	    return Coverage{radiusKm: radiusKm, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c Coverage) Validate() error {
//	    return c.guard.Validate(ErrCoverageIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking the owning object as properly
// constructed. Call it only from constructors.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the owning object was created through its
// constructor. Otherwise it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
