package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

var (
	// ErrPurchaseOrderIsNotConstructed is returned when a PurchaseOrder instance was not
	// created through NewPurchaseOrder or RestorePurchaseOrder.
	ErrPurchaseOrderIsNotConstructed = errors.New("purchase order must be created via NewPurchaseOrder constructor")
)

// PurchaseOrder is the aggregate root a client pays for. Its shipments are created
// during checkout and handed to the carrier when payment is approved.
//
// PurchaseOrder follows these invariants:
//   - Must belong to a client
//   - Must reference the order summary carrying its delivery address
//   - Is paid only once, from PendingApproval
type PurchaseOrder struct {
	// id is the purchase order number shown to customers
	id int64

	// clientID is the tenant owning the order
	clientID int64

	// orderSummaryID references the summary with addresses and totals
	orderSummaryID int64

	// vendorNumber is the customer's own reference, echoed to the carrier and audit log
	vendorNumber string

	// receipt is the invoice number printed on the carrier invoice
	receipt string

	// status is the approval state
	status Status

	// isConstructed ensures the purchase order was created via a constructor
	isConstructed bool
}

// NewPurchaseOrder creates a purchase order awaiting payment.
//
// Parameters:
//   - id: purchase order number (must be positive)
//   - clientID: owning client (must be positive)
//   - orderSummaryID: summary reference (must be positive)
//   - vendorNumber: optional customer reference
func NewPurchaseOrder(id, clientID, orderSummaryID int64, vendorNumber string) (*PurchaseOrder, error) {
	return RestorePurchaseOrder(id, clientID, orderSummaryID, vendorNumber, "", PendingApproval)
}

// RestorePurchaseOrder rebuilds a purchase order read from storage.
func RestorePurchaseOrder(
	id, clientID, orderSummaryID int64,
	vendorNumber, receipt string,
	status Status,
) (*PurchaseOrder, error) {
	po := &PurchaseOrder{
		vendorNumber:  strings.TrimSpace(vendorNumber),
		receipt:       strings.TrimSpace(receipt),
		isConstructed: true,
	}

	if err := errors.Join(
		po.setID(id),
		po.setClientID(clientID),
		po.setOrderSummaryID(orderSummaryID),
		po.setStatus(status),
	); err != nil {
		return nil, err
	}

	return po, nil
}

// Validate ensures the PurchaseOrder instance was properly constructed.
func (po *PurchaseOrder) Validate() error {
	if po == nil || !po.isConstructed {
		return ErrPurchaseOrderIsNotConstructed
	}
	return nil
}

func (po *PurchaseOrder) ID() int64             { return po.id }
func (po *PurchaseOrder) ClientID() int64       { return po.clientID }
func (po *PurchaseOrder) OrderSummaryID() int64 { return po.orderSummaryID }
func (po *PurchaseOrder) VendorNumber() string  { return po.vendorNumber }
func (po *PurchaseOrder) Receipt() string       { return po.receipt }
func (po *PurchaseOrder) Status() Status        { return po.status }

// ValidateAccess rejects callers acting for another client.
func (po *PurchaseOrder) ValidateAccess(clientID int64) error {
	if po.clientID != clientID {
		return errs.NewBadRequest("Access denied to this purchase order.")
	}
	return nil
}

// ValidateCanBePaid fails unless the order is PendingApproval.
func (po *PurchaseOrder) ValidateCanBePaid() error {
	return po.status.ValidateCanBePaid()
}

// Approve marks the purchase order as paid.
func (po *PurchaseOrder) Approve() error {
	next, err := po.status.Approve()
	if err != nil {
		return err
	}
	po.status = next
	return nil
}

func (po *PurchaseOrder) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	po.id = id
	return nil
}

func (po *PurchaseOrder) setClientID(clientID int64) error {
	if clientID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("client id is invalid", fmt.Errorf("%d is not greater than 0", clientID))
	}
	po.clientID = clientID
	return nil
}

func (po *PurchaseOrder) setOrderSummaryID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("order summary id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	po.orderSummaryID = id
	return nil
}

func (po *PurchaseOrder) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	po.status = status
	return nil
}
