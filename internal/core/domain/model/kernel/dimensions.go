package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDimensionsIsNotConstructed = errs.NewValueIsRequiredError(
	"dimensions must be created via NewDimensions or UnknownDimensions")

// Dimensions are the inner measurements of a box or the outer measurements of a
// product, in centimetres. A product without configured measurements uses
// UnknownDimensions and occupies no volume.
type Dimensions struct { //nolint:recvcheck //using for validation
	length  float64
	breadth float64
	height  float64
	known   bool
	guard   guard.ConstructorGuard
}

// NewDimensions validates that every side is non-negative.
func NewDimensions(length, breadth, height float64) (Dimensions, error) {
	d := Dimensions{known: true, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		d.setSide("length", &d.length, length),
		d.setSide("breadth", &d.breadth, breadth),
		d.setSide("height", &d.height, height),
	); err != nil {
		return Dimensions{}, err
	}

	return d, nil
}

// UnknownDimensions is used for catalog items whose measurements were never entered.
func UnknownDimensions() Dimensions {
	return Dimensions{guard: guard.NewConstructorGuard()}
}

func (d Dimensions) Validate() error {
	return d.guard.Validate(ErrDimensionsIsNotConstructed)
}

func (d Dimensions) Length() float64  { return d.length }
func (d Dimensions) Breadth() float64 { return d.breadth }
func (d Dimensions) Height() float64  { return d.height }

// IsKnown is false for UnknownDimensions.
func (d Dimensions) IsKnown() bool {
	return d.known
}

// Volume in cubic centimetres. Unknown dimensions have zero volume.
func (d Dimensions) Volume() float64 {
	return d.length * d.breadth * d.height
}

func (d Dimensions) String() string {
	if !d.known {
		return "Dimensions(unknown)"
	}
	return fmt.Sprintf("Dimensions(%gx%gx%g)", d.length, d.breadth, d.height)
}

func (d *Dimensions) setSide(name string, target *float64, value float64) error {
	if value < 0 {
		return errs.NewValueIsOutOfRangeError(name, value, 0, "unbounded")
	}
	*target = value
	return nil
}
