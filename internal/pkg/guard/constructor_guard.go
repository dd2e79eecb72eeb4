// Package guard marks values that were built through their constructor so that
// zero-valued commands and queries can be rejected before they reach a handler.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands and queries. Its zero value fails Validate.
//
// Example:
//
//	type CancelShipmentCommand struct {
//	    shipmentID int64
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c CancelShipmentCommand) Validate() error {
//	    return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) for a
// zero-valued guard.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
