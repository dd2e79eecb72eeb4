package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelReturnShipmentCommandIsNotConstructed = errors.New(
	"CancelReturnShipmentCommand must be created via NewCancelReturnShipmentCommand constructor",
)

type CancelReturnShipmentCommand struct {
	clientID         int64
	returnShipmentID int64

	guard guard.ConstructorGuard
}

func NewCancelReturnShipmentCommand(clientID, returnShipmentID int64) (CancelReturnShipmentCommand, error) {
	if returnShipmentID <= 0 {
		return CancelReturnShipmentCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"return shipment id", fmt.Errorf("%d is not greater than 0", returnShipmentID))
	}

	return CancelReturnShipmentCommand{
		clientID:         clientID,
		returnShipmentID: returnShipmentID,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (c CancelReturnShipmentCommand) ClientID() int64         { return c.clientID }
func (c CancelReturnShipmentCommand) ReturnShipmentID() int64 { return c.returnShipmentID }

func (c CancelReturnShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelReturnShipmentCommandIsNotConstructed)
}
