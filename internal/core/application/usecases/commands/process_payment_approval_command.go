package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrProcessPaymentApprovalCommandIsNotConstructed = errors.New(
	"ProcessPaymentApprovalCommand must be created via NewProcessPaymentApprovalCommand constructor",
)

// ProcessPaymentApprovalCommand pays a purchase order and hands its shipments to the
// carrier. The purchase order is the one the payment method names.
//
// Example:
//
//	cmd, err := NewProcessPaymentApprovalCommand(clientID, userID, payment.Online{
//	    OrderID:        42,
//	    Paid:           decimal.RequireFromString("560"),
//	    GatewayOrderID: "order_Nx",
//	    PaymentID:      "pay_Nx",
//	    Signature:      signature,
//	})
//	result, err := handler.Handle(ctx, cmd)
type ProcessPaymentApprovalCommand struct {
	clientID int64
	actorID  int64
	method   payment.Method

	guard guard.ConstructorGuard
}

// NewProcessPaymentApprovalCommand validates the caller and the payment details.
// actorID is the user recorded in the audit log.
func NewProcessPaymentApprovalCommand(clientID, actorID int64, method payment.Method) (ProcessPaymentApprovalCommand, error) {
	if clientID <= 0 {
		return ProcessPaymentApprovalCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"client id", fmt.Errorf("%d is not greater than 0", clientID))
	}
	if method == nil {
		return ProcessPaymentApprovalCommand{}, errs.NewValueIsRequiredError("payment method")
	}
	if err := method.Validate(); err != nil {
		return ProcessPaymentApprovalCommand{}, err
	}

	return ProcessPaymentApprovalCommand{
		clientID: clientID,
		actorID:  actorID,
		method:   method,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessPaymentApprovalCommand) ClientID() int64        { return c.clientID }
func (c ProcessPaymentApprovalCommand) ActorID() int64         { return c.actorID }
func (c ProcessPaymentApprovalCommand) Method() payment.Method { return c.method }

func (c ProcessPaymentApprovalCommand) PurchaseOrderID() int64 {
	return c.method.PurchaseOrderID()
}

func (c ProcessPaymentApprovalCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentApprovalCommandIsNotConstructed)
}
