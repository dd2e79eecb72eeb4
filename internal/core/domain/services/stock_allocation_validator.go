package services

import (
	"context"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

// StockLedger reads the available counters of the per-location stock ledgers.
type StockLedger interface {
	ProductStock(ctx context.Context, productID, pickupLocationID int64) (available int, found bool, err error)
	PackageStock(ctx context.Context, packageID, pickupLocationID int64) (available int, found bool, err error)
}

// StockAllocationValidator checks that a pickup location still holds what a shipment
// was allocated. It only reads the ledgers.
//
// Failures:
//   - NotFound when the product or package is not mapped to the pickup location
//   - *errs.StockShortfallError (a BadRequest) when fewer units are available than required
type StockAllocationValidator struct {
	ledger StockLedger
}

func NewStockAllocationValidator(ledger StockLedger) StockAllocationValidator {
	return StockAllocationValidator{ledger: ledger}
}

func (v StockAllocationValidator) ValidateProduct(ctx context.Context, productID, pickupLocationID int64, quantity int) error {
	available, found, err := v.ledger.ProductStock(ctx, productID, pickupLocationID)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewNotFound("Product ID %d is not available at pickup location ID %d", productID, pickupLocationID)
	}
	if available < quantity {
		return errs.NewStockShortfallError(errs.ProductStock, productID, pickupLocationID, quantity, available)
	}
	return nil
}

func (v StockAllocationValidator) ValidatePackage(ctx context.Context, packageID, pickupLocationID int64, quantity int) error {
	available, found, err := v.ledger.PackageStock(ctx, packageID, pickupLocationID)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewNotFound("Package ID %d is not available at pickup location ID %d", packageID, pickupLocationID)
	}
	if available < quantity {
		return errs.NewStockShortfallError(errs.PackageStock, packageID, pickupLocationID, quantity, available)
	}
	return nil
}

// ValidateShipment checks every product line, then every package line, and stops at the
// first failure.
func (v StockAllocationValidator) ValidateShipment(ctx context.Context, s *shipment.Shipment) error {
	if err := s.Validate(); err != nil {
		return err
	}

	for _, p := range s.Products() {
		if err := v.ValidateProduct(ctx, p.ProductID(), s.PickupLocationID(), p.Quantity()); err != nil {
			return err
		}
	}
	for _, p := range s.Packages() {
		if err := v.ValidatePackage(ctx, p.PackageID(), s.PickupLocationID(), p.Quantity()); err != nil {
			return err
		}
	}
	return nil
}
