package queries

import (
	"errors"

	"github.com/shopspring/decimal"

	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderShipmentsQueryIsNotConstructed = errors.New(
	"GetOrderShipmentsQuery must be created via NewGetOrderShipmentsQuery constructor",
)

// GetOrderShipmentsQuery lists the shipments created for a purchase order.
type GetOrderShipmentsQuery struct {
	clientID        int64
	purchaseOrderID int64

	guard guard.ConstructorGuard
}

func NewGetOrderShipmentsQuery(clientID, purchaseOrderID int64) GetOrderShipmentsQuery {
	return GetOrderShipmentsQuery{
		clientID:        clientID,
		purchaseOrderID: purchaseOrderID,
		guard:           guard.NewConstructorGuard(),
	}
}

func (q GetOrderShipmentsQuery) ClientID() int64        { return q.clientID }
func (q GetOrderShipmentsQuery) PurchaseOrderID() int64 { return q.purchaseOrderID }

func (q GetOrderShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderShipmentsQueryIsNotConstructed)
}

// OrderShipmentView is one row of the order's shipment list.
type OrderShipmentView struct {
	ID           int64
	LocationName string
	Status       string
	AWBCode      string
	CourierName  string
	ShippingCost decimal.Decimal
}
