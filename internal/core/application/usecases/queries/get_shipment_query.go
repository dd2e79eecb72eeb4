package queries

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/pkg/guard"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery reads one shipment of a client with its product lines.
type GetShipmentQuery struct {
	clientID   int64
	shipmentID int64

	guard guard.ConstructorGuard
}

func NewGetShipmentQuery(clientID, shipmentID int64) GetShipmentQuery {
	return GetShipmentQuery{clientID: clientID, shipmentID: shipmentID, guard: guard.NewConstructorGuard()}
}

func (q GetShipmentQuery) ClientID() int64   { return q.clientID }
func (q GetShipmentQuery) ShipmentID() int64 { return q.shipmentID }

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

// GetShipmentQueryResponse is the shipment read model. Weights are kilograms.
type GetShipmentQueryResponse struct {
	ID                int64
	OrderSummaryID    int64
	PickupLocationID  int64
	LocationName      string
	Status            string
	CarrierOrderID    string
	CarrierShipmentID string
	AWBCode           string
	CourierName       string
	LabelURL          string
	ManifestURL       string
	InvoiceURL        string
	TotalWeight       decimal.Decimal
	PackagingCost     decimal.Decimal
	ShippingCost      decimal.Decimal
	DeliveredAt       *time.Time
	Products          []ShipmentProductView
}

type ShipmentProductView struct {
	ProductID      int64
	Title          string
	Quantity       int
	AllocatedPrice decimal.Decimal
}
