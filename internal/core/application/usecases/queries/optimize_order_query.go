package queries

import (
	"errors"
	"maps"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/pkg/guard"
)

var ErrOptimizeOrderQueryIsNotConstructed = errors.New(
	"OptimizeOrderQuery must be created via NewOptimizeOrderQuery constructor",
)

// OptimizeOrderQuery asks how an order would be fulfilled before it is placed.
//
// Quantities maps product id to units. CustomAllocation, when not empty, fixes the
// supplying locations: product id, then pickup location id, to units.
//
// Example:
//
//	query := NewOptimizeOrderQuery(clientID, map[int64]int{101: 3}, "560001", false, nil)
//	result := handler.Handle(ctx, query)
//	if !result.Success {
//	    return errors.New(result.ErrorMessage)
//	}
type OptimizeOrderQuery struct {
	clientID         int64
	quantities       map[int64]int
	deliveryPostcode string
	cod              bool
	customAllocation map[int64]map[int64]int

	guard guard.ConstructorGuard
}

// NewOptimizeOrderQuery never fails: input problems are reported by the handler in the
// result, like every other outcome of optimization.
func NewOptimizeOrderQuery(
	clientID int64,
	quantities map[int64]int,
	deliveryPostcode string,
	cod bool,
	customAllocation map[int64]map[int64]int,
) OptimizeOrderQuery {
	return OptimizeOrderQuery{
		clientID:         clientID,
		quantities:       maps.Clone(quantities),
		deliveryPostcode: deliveryPostcode,
		cod:              cod,
		customAllocation: customAllocation,
		guard:            guard.NewConstructorGuard(),
	}
}

func (q OptimizeOrderQuery) ClientID() int64                           { return q.clientID }
func (q OptimizeOrderQuery) Quantities() map[int64]int                 { return maps.Clone(q.quantities) }
func (q OptimizeOrderQuery) DeliveryPostcode() string                  { return q.deliveryPostcode }
func (q OptimizeOrderQuery) COD() bool                                 { return q.cod }
func (q OptimizeOrderQuery) CustomAllocation() map[int64]map[int64]int { return q.customAllocation }

func (q OptimizeOrderQuery) IsCustom() bool {
	return len(q.customAllocation) > 0
}

func (q OptimizeOrderQuery) Validate() error {
	return q.guard.Validate(ErrOptimizeOrderQueryIsNotConstructed)
}

// ProductAllocation is the part of one product a shipment group carries.
type ProductAllocation struct {
	ProductID   int64
	Title       string
	Quantity    int
	TotalWeight kernel.Weight
}

// ShipmentGroup is a prospective shipment from one pickup location.
type ShipmentGroup struct {
	PickupLocationID int64
	LocationName     string
	PickupPostcode   string
	Products         []ProductAllocation
	Packages         []packaging.Usage
	TotalQuantity    int
	TotalWeight      kernel.Weight
	PackagingCost    decimal.Decimal
	ShippingCost     decimal.Decimal
	TotalCost        decimal.Decimal
	// Couriers holds every quote, cheapest first. SelectedCourier is the first of them.
	Couriers        []courier.Option
	SelectedCourier *courier.Option
}

// OptimizeOrderResult is always returned, including on failure: Success is false and
// ErrorMessage says why. A plan without couriers for every group is still a success,
// with AllCouriersAvailable false and the reason in UnavailabilityReason.
type OptimizeOrderResult struct {
	Success              bool
	ErrorMessage         string
	Description          string
	TotalCost            decimal.Decimal
	TotalPackagingCost   decimal.Decimal
	TotalShippingCost    decimal.Decimal
	ShipmentCount        int
	Shipments            []ShipmentGroup
	CanFulfillOrder      bool
	Shortfall            int
	AllCouriersAvailable bool
	UnavailabilityReason string
	TotalProductCount    int
	TotalQuantity        int
	// NoPackages is set when the order failed because no stocking location has any
	// package type configured for a product.
	NoPackages *NoPackagesDetail
}

type NoPackagesDetail struct {
	ProductTitle       string
	Requested          int
	LocationsEvaluated []string
}

func failedOptimization(message string) OptimizeOrderResult {
	return OptimizeOrderResult{ErrorMessage: message}
}
