package errs

import (
	"errors"
	"fmt"
)

// Top-level failure kinds surfaced by every use case. Adapters classify on these
// with errors.Is; the message itself is already formatted for the caller.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// DomainError is a NotFound or BadRequest failure with a pre-formatted message.
type DomainError struct {
	Kind    error
	Message string
	Cause   error
}

// NewNotFound formats a NotFound error.
//
// Example:
//
//	return errs.NewNotFound("Shipment not found with ID: %d", id)
func NewNotFound(format string, args ...any) *DomainError {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewBadRequest formats a BadRequest error.
func NewBadRequest(format string, args ...any) *DomainError {
	return &DomainError{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NewBadRequestWithCause formats a BadRequest error and keeps the underlying
// failure reachable through errors.Is / errors.As.
func NewBadRequestWithCause(cause error, format string, args ...any) *DomainError {
	return &DomainError{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// IsNotFound reports whether err is classified as NotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest reports whether err is classified as BadRequest.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// StockSubject names the ledger a shortfall was detected in.
type StockSubject string

const (
	ProductStock StockSubject = "product"
	PackageStock StockSubject = "package"
)

// StockShortfallError is a BadRequest raised when a pickup location holds fewer
// units than a shipment needs.
type StockShortfallError struct {
	Subject          StockSubject
	ID               int64
	PickupLocationID int64
	Requested        int
	Available        int
}

func NewStockShortfallError(subject StockSubject, id, pickupLocationID int64, requested, available int) *StockShortfallError {
	return &StockShortfallError{
		Subject:          subject,
		ID:               id,
		PickupLocationID: pickupLocationID,
		Requested:        requested,
		Available:        available,
	}
}

func (e *StockShortfallError) Error() string {
	if e.Subject == PackageStock {
		return fmt.Sprintf("Insufficient packages for package ID %d at pickup location ID %d. Available: %d, Requested: %d",
			e.ID, e.PickupLocationID, e.Available, e.Requested)
	}
	return fmt.Sprintf("Insufficient stock for product ID %d at pickup location ID %d. Available: %d, Requested: %d",
		e.ID, e.PickupLocationID, e.Available, e.Requested)
}

func (e *StockShortfallError) Unwrap() error {
	return ErrBadRequest
}
