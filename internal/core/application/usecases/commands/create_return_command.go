package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateReturnCommandIsNotConstructed = errors.New(
	"CreateReturnCommand must be created via NewCreateReturnCommand constructor",
)

// ReturnItem is one product the customer sends back.
type ReturnItem struct {
	ProductID int64
	Quantity  int
	Reason    string
}

type CreateReturnCommand struct {
	clientID   int64
	shipmentID int64
	items      []ReturnItem
	parcel     returns.Parcel

	guard guard.ConstructorGuard
}

// NewCreateReturnCommand checks the request item by item. A nil parcel means the
// default return parcel.
func NewCreateReturnCommand(clientID, shipmentID int64, items []ReturnItem, parcel *returns.Parcel) (CreateReturnCommand, error) {
	if shipmentID <= 0 {
		return CreateReturnCommand{}, errs.NewBadRequest("Shipment ID is required.")
	}
	if len(items) == 0 {
		return CreateReturnCommand{}, errs.NewBadRequest("At least one product must be selected for return.")
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return CreateReturnCommand{}, errs.NewBadRequest("Product ID is required for each return item.")
		}
		if item.Quantity <= 0 {
			return CreateReturnCommand{}, errs.NewBadRequest("Valid quantity is required for each return item.")
		}
		if strings.TrimSpace(item.Reason) == "" {
			return CreateReturnCommand{}, errs.NewBadRequest("Return reason is required for each product.")
		}
	}

	p := returns.DefaultParcel()
	if parcel != nil {
		p = *parcel
	}

	return CreateReturnCommand{
		clientID:   clientID,
		shipmentID: shipmentID,
		items:      append([]ReturnItem(nil), items...),
		parcel:     p,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateReturnCommand) ClientID() int64        { return c.clientID }
func (c CreateReturnCommand) ShipmentID() int64      { return c.shipmentID }
func (c CreateReturnCommand) Items() []ReturnItem    { return append([]ReturnItem(nil), c.items...) }
func (c CreateReturnCommand) Parcel() returns.Parcel { return c.parcel }

func (c CreateReturnCommand) Validate() error {
	return c.guard.Validate(ErrCreateReturnCommandIsNotConstructed)
}
