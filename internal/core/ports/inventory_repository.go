package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
)

// InventoryRepository reads and consumes the per-location stock ledgers.
type InventoryRepository interface {
	// ProductStock returns the available counter of a product at a pickup location.
	// found is false when the product is not mapped to the location.
	ProductStock(ctx context.Context, productID, pickupLocationID int64) (available int, found bool, err error)

	// PackageStock is ProductStock for package types.
	PackageStock(ctx context.Context, packageID, pickupLocationID int64) (available int, found bool, err error)

	// ConsumeProduct decrements the counter only if it still covers quantity.
	// Returns *errs.StockShortfallError when it does not, leaving the row untouched.
	ConsumeProduct(ctx context.Context, productID, pickupLocationID int64, quantity int) error

	// ConsumePackage is ConsumeProduct for package types.
	ConsumePackage(ctx context.Context, packageID, pickupLocationID int64, quantity int) error

	// ProductLocations lists every (product, location) mapping of the given products,
	// with the product and the location resolved.
	ProductLocations(ctx context.Context, productIDs []int64) ([]inventory.ProductStock, error)

	// LocationPackages lists every package type stocked at the given locations.
	LocationPackages(ctx context.Context, pickupLocationIDs []int64) ([]inventory.PackageStock, error)
}
