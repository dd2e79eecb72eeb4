// Package queries contains read operations for retrieving fulfillment state and
// shipping estimates. Queries never change aggregates; estimation queries do call the
// carrier for quotes.
package queries

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCalculateShippingQueryIsNotConstructed = errors.New(
	"CalculateShippingQuery must be created via NewCalculateShippingQuery constructor",
)

// LocationShipment is the part of an order leaving one pickup location, as the
// storefront computed it.
type LocationShipment struct {
	PickupLocationID int64
	LocationName     string
	PickupPostcode   string
	TotalWeight      kernel.Weight
	TotalQuantity    int
	ProductIDs       []int64
}

// CalculateShippingQuery quotes couriers for shipments already grouped by location.
//
// Example:
//
//	query := NewCalculateShippingQuery(clientID, "110001", false, []LocationShipment{
//	    {PickupLocationID: 41, PickupPostcode: "560034", TotalWeight: kernel.MustWeight("1.2")},
//	})
//	result, err := handler.Handle(ctx, query)
type CalculateShippingQuery struct {
	clientID         int64
	deliveryPostcode string
	cod              bool
	locations        []LocationShipment

	guard guard.ConstructorGuard
}

func NewCalculateShippingQuery(
	clientID int64,
	deliveryPostcode string,
	cod bool,
	locations []LocationShipment,
) CalculateShippingQuery {
	return CalculateShippingQuery{
		clientID:         clientID,
		deliveryPostcode: deliveryPostcode,
		cod:              cod,
		locations:        slices.Clone(locations),
		guard:            guard.NewConstructorGuard(),
	}
}

func (q CalculateShippingQuery) ClientID() int64                { return q.clientID }
func (q CalculateShippingQuery) DeliveryPostcode() string       { return q.deliveryPostcode }
func (q CalculateShippingQuery) COD() bool                      { return q.cod }
func (q CalculateShippingQuery) Locations() []LocationShipment { return slices.Clone(q.locations) }

func (q CalculateShippingQuery) Validate() error {
	return q.guard.Validate(ErrCalculateShippingQueryIsNotConstructed)
}

// LocationShippingOption is the quote for one LocationShipment. SelectedCourier is nil
// when no courier serves the route.
type LocationShippingOption struct {
	LocationShipment
	Couriers        []courier.Option
	SelectedCourier *courier.Option
}

// CalculateShippingResult sums the selected rates into TotalShippingCost.
type CalculateShippingResult struct {
	Locations         []LocationShippingOption
	TotalShippingCost decimal.Decimal
}
