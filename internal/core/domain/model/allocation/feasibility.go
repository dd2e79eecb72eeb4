package allocation

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies why a product cannot be supplied in full.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonInsufficientStockZero
	ReasonNoPackagesConfigured
	ReasonNoPackagesAvailable
	ReasonExceedsPackageLimits
	ReasonCannotPackage
	ReasonInsufficientStockPackaging
)

// NotEnoughPackages is the packaging detail used when no location explains itself.
const NotEnoughPackages = "not enough packages available to pack the requested quantity"

var ErrInfeasible = errors.New("order cannot be supplied")

// NoPackagesConfigured is the structured detail reported when none of the locations
// stocking a product has any package type mapped.
type NoPackagesConfigured struct {
	ProductTitle       string
	Requested          int
	LocationsEvaluated []string
}

// FeasibilityError reports the first product whose requested quantity cannot be
// covered by stock that the locations can also pack.
type FeasibilityError struct {
	ProductID int64
	Title     string
	Reason    Reason
	Requested int
	Stock     int
	Packable  int
	Detail    string
	// NoPackages is set for ReasonNoPackagesConfigured.
	NoPackages *NoPackagesConfigured
}

func (e *FeasibilityError) Error() string {
	switch e.Reason {
	case ReasonInsufficientStockZero:
		return fmt.Sprintf("Insufficient stock for product '%s'. Requested: %d, Available stock: 0",
			e.Title, e.Requested)
	case ReasonNoPackagesConfigured:
		return fmt.Sprintf("Product '%s' cannot be packaged. Stock available: %d, but no packages are configured at pickup locations. Requested: %d",
			e.Title, e.Stock, e.Requested)
	case ReasonNoPackagesAvailable:
		return fmt.Sprintf("Product '%s' cannot be packaged. Stock available: %d, but no packages are available at pickup locations (all packages have 0 quantity). Requested: %d",
			e.Title, e.Stock, e.Requested)
	case ReasonExceedsPackageLimits:
		return fmt.Sprintf("Product '%s' cannot be packaged. Stock available: %d, but product dimensions/weight exceed all available package limits. Requested: %d",
			e.Title, e.Stock, e.Requested)
	case ReasonCannotPackage:
		detail := e.Detail
		if detail == "" {
			detail = NotEnoughPackages
		}
		return fmt.Sprintf("Product '%s' cannot be packaged with available packages. Stock available: %d, but %s. Requested: %d",
			e.Title, e.Stock, detail, e.Requested)
	default:
		return fmt.Sprintf("Insufficient stock/packaging for product '%s'. Requested: %d, Available stock: %d, Packable (considering packaging constraints): %d",
			e.Title, e.Requested, e.Stock, e.Packable)
	}
}

func (e *FeasibilityError) Unwrap() error {
	return ErrInfeasible
}

// CustomAllocationError collects every rejected line of a caller-supplied allocation.
type CustomAllocationError struct {
	Problems []string
}

func (e *CustomAllocationError) Error() string {
	if len(e.Problems) == 0 {
		return "No valid allocations specified"
	}
	return fmt.Sprintf("Custom allocation validation failed:\n %s", strings.Join(e.Problems, "\n• "))
}

func (e *CustomAllocationError) Unwrap() error {
	return ErrInfeasible
}
