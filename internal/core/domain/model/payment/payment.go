// Package payment models how a purchase order is paid. Method is a closed sum type:
// Cash for payments recorded by staff, Online for gateway payments that must be
// verified. Both are handed to a single verifier.
package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fulfillment/internal/pkg/errs"
)

// Method is implemented only by Cash and Online.
type Method interface {
	PurchaseOrderID() int64
	Amount() decimal.Decimal
	Kind() string
	Validate() error

	isMethod()
}

// Cash is a payment collected outside the gateway and recorded by a staff member.
type Cash struct {
	OrderID    int64
	Paid       decimal.Decimal
	ReceivedBy string
	Reference  string
	Notes      string
}

func (c Cash) PurchaseOrderID() int64  { return c.OrderID }
func (c Cash) Amount() decimal.Decimal { return c.Paid }
func (c Cash) Kind() string            { return "CASH" }
func (c Cash) isMethod()               {}

func (c Cash) Validate() error {
	return errors.Join(
		validateOrder(c.OrderID),
		validateAmount(c.Paid),
	)
}

// Online is a gateway payment identified by the gateway's order and payment ids and
// signed by the gateway.
type Online struct {
	OrderID        int64
	Paid           decimal.Decimal
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

func (o Online) PurchaseOrderID() int64  { return o.OrderID }
func (o Online) Amount() decimal.Decimal { return o.Paid }
func (o Online) Kind() string            { return "ONLINE" }
func (o Online) isMethod()               {}

func (o Online) Validate() error {
	var missing error
	if strings.TrimSpace(o.GatewayOrderID) == "" {
		missing = errors.Join(missing, errs.NewValueIsRequiredError("gateway order id"))
	}
	if strings.TrimSpace(o.PaymentID) == "" {
		missing = errors.Join(missing, errs.NewValueIsRequiredError("payment id"))
	}
	if strings.TrimSpace(o.Signature) == "" {
		missing = errors.Join(missing, errs.NewValueIsRequiredError("signature"))
	}
	return errors.Join(validateOrder(o.OrderID), missing)
}

// VerificationResult is the verifier's verdict. A failed verification is not an error:
// FailureReason explains it to the payer.
type VerificationResult struct {
	Success       bool
	FailureReason string
	TransactionID string
}

func Verified(transactionID string) VerificationResult {
	return VerificationResult{Success: true, TransactionID: transactionID}
}

func Rejected(reason string) VerificationResult {
	return VerificationResult{FailureReason: reason}
}

func validateOrder(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("purchase order id", fmt.Errorf("%d is not greater than 0", id))
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	return nil
}
