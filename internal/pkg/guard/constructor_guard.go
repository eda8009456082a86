// Package guard provides ConstructorGuard, a marker embedded in value objects and
// entities so that zero values can be told apart from constructed instances.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard when no
// specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether its owner was built by the owner's constructor.
//
// Example:
//
//	var ErrZoneIsNotConstructed = errors.New("ExclusionZone must be created via NewExclusionZone")
//
//	type ExclusionZone struct {
//	    center kernel.Point
//	    guard  guard.ConstructorGuard
//	}
//
//	func (z *ExclusionZone) Validate() error {
//	    return z.guard.Validate(ErrZoneIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero value it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
