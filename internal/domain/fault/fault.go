// Package fault defines the error kinds shared by the catalog, product and
// store packages. Callers classify failures with errors.Is against these
// sentinels; the concrete errors carry the details.
package fault

import "github.com/go-faster/errors"

var (
	// ErrInvalidType is returned when an argument is missing or is not one of
	// the recognized variants (nil product, unknown promotion kind).
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidValue is returned when a well-typed argument violates a domain
	// constraint, such as a negative price or a non-positive purchase quantity.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNotFound is returned when a referenced product is absent from the store.
	ErrNotFound = errors.New("not found")
	// ErrCapacityExceeded is returned when a purchase asks for more units than
	// the stock or the per-order maximum allows.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// Invalid wraps ErrInvalidValue with a description of the violated constraint.
func Invalid(msg string) error {
	return errors.Wrap(ErrInvalidValue, msg)
}

// Invalidf is like Invalid but formats the description.
func Invalidf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidValue, format, args...)
}
