package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelShipmentCommandIsNotConstructed = errors.New(
	"CancelShipmentCommand must be created via NewCancelShipmentCommand constructor",
)

type CancelShipmentCommand struct {
	clientID   int64
	shipmentID int64

	guard guard.ConstructorGuard
}

func NewCancelShipmentCommand(clientID, shipmentID int64) (CancelShipmentCommand, error) {
	if shipmentID <= 0 {
		return CancelShipmentCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"shipment id", fmt.Errorf("%d is not greater than 0", shipmentID))
	}

	return CancelShipmentCommand{
		clientID:   clientID,
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CancelShipmentCommand) ClientID() int64   { return c.clientID }
func (c CancelShipmentCommand) ShipmentID() int64 { return c.shipmentID }

func (c CancelShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
}
