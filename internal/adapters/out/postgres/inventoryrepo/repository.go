package inventoryrepo

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"
)

// GormInventoryRepository implements ports.InventoryRepository using GORM.
//
// Consume* decrement with a single conditional UPDATE, so two transactions draining
// the same row can never take it below zero: the second one affects no rows and gets
// a shortfall.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) ProductStock(ctx context.Context, productID, pickupLocationID int64) (int, bool, error) {
	var dto ProductStockDTO
	err := r.db.WithContext(ctx).
		First(&dto, "product_id = ? AND pickup_location_id = ?", productID, pickupLocationID).Error
	return available(dto.Available, err)
}

func (r *GormInventoryRepository) PackageStock(ctx context.Context, packageID, pickupLocationID int64) (int, bool, error) {
	var dto PackageStockDTO
	err := r.db.WithContext(ctx).
		First(&dto, "package_id = ? AND pickup_location_id = ?", packageID, pickupLocationID).Error
	return available(dto.Available, err)
}

func available(n int, err error) (int, bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (r *GormInventoryRepository) ConsumeProduct(ctx context.Context, productID, pickupLocationID int64, quantity int) error {
	result := r.db.WithContext(ctx).Model(&ProductStockDTO{}).
		Where("product_id = ? AND pickup_location_id = ? AND available >= ?", productID, pickupLocationID, quantity).
		UpdateColumn("available", gorm.Expr("available - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	left, found, err := r.ProductStock(ctx, productID, pickupLocationID)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewNotFound("Product ID %d is not available at pickup location ID %d", productID, pickupLocationID)
	}
	return errs.NewStockShortfallError(errs.ProductStock, productID, pickupLocationID, quantity, left)
}

func (r *GormInventoryRepository) ConsumePackage(ctx context.Context, packageID, pickupLocationID int64, quantity int) error {
	result := r.db.WithContext(ctx).Model(&PackageStockDTO{}).
		Where("package_id = ? AND pickup_location_id = ? AND available >= ?", packageID, pickupLocationID, quantity).
		UpdateColumn("available", gorm.Expr("available - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	left, found, err := r.PackageStock(ctx, packageID, pickupLocationID)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewNotFound("Package ID %d is not available at pickup location ID %d", packageID, pickupLocationID)
	}
	return errs.NewStockShortfallError(errs.PackageStock, packageID, pickupLocationID, quantity, left)
}

// ProductLocations lists the stock rows of the given products ordered by product and
// location, with both sides resolved from the catalog.
func (r *GormInventoryRepository) ProductLocations(ctx context.Context, productIDs []int64) ([]inventory.ProductStock, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var rows []ProductStockDTO
	if err := r.db.WithContext(ctx).
		Where("product_id = ANY(?)", pq.Array(productIDs)).
		Order("product_id, pickup_location_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make(map[int64]catalog.Product)
	locationIDs := make(map[int64]struct{})
	for _, row := range rows {
		products[row.ProductID] = catalog.Product{}
		locationIDs[row.PickupLocationID] = struct{}{}
	}

	var productDTOs []catalogrepo.ProductDTO
	if err := r.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Array(slices.Collect(maps.Keys(products)))).
		Find(&productDTOs).Error; err != nil {
		return nil, err
	}
	for _, dto := range productDTOs {
		p, err := catalogrepo.ToProduct(dto)
		if err != nil {
			return nil, err
		}
		products[p.ID()] = p
	}

	locations, err := r.locations(ctx, slices.Collect(maps.Keys(locationIDs)))
	if err != nil {
		return nil, err
	}

	stocks := make([]inventory.ProductStock, 0, len(rows))
	for _, row := range rows {
		p := products[row.ProductID]
		loc, ok := locations[row.PickupLocationID]
		if p.ID() == 0 || !ok {
			continue
		}
		stocks = append(stocks, inventory.ProductStock{
			Product:  p,
			Location: loc,
			StockLevel: inventory.StockLevel{
				ItemID:           row.ProductID,
				PickupLocationID: row.PickupLocationID,
				Available:        row.Available,
			},
		})
	}
	return stocks, nil
}

// LocationPackages lists every package type mapped to the given locations, ordered by
// location and package.
func (r *GormInventoryRepository) LocationPackages(ctx context.Context, pickupLocationIDs []int64) ([]inventory.PackageStock, error) {
	if len(pickupLocationIDs) == 0 {
		return nil, nil
	}

	var rows []PackageStockDTO
	if err := r.db.WithContext(ctx).
		Where("pickup_location_id = ANY(?)", pq.Array(pickupLocationIDs)).
		Order("pickup_location_id, package_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	packageIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		packageIDs = append(packageIDs, row.PackageID)
	}
	packageIDs = slices.Compact(slices.Sorted(slices.Values(packageIDs)))

	types := make(map[int64]catalog.PackageType, len(packageIDs))
	var typeDTOs []catalogrepo.PackageTypeDTO
	if err := r.db.WithContext(ctx).Where("id = ANY(?)", pq.Array(packageIDs)).Find(&typeDTOs).Error; err != nil {
		return nil, err
	}
	for _, dto := range typeDTOs {
		pt, err := catalogrepo.ToPackageType(dto)
		if err != nil {
			return nil, err
		}
		types[pt.ID()] = pt
	}

	stocks := make([]inventory.PackageStock, 0, len(rows))
	for _, row := range rows {
		pt, ok := types[row.PackageID]
		if !ok {
			continue
		}
		stocks = append(stocks, inventory.PackageStock{
			Package: pt,
			StockLevel: inventory.StockLevel{
				ItemID:           row.PackageID,
				PickupLocationID: row.PickupLocationID,
				Available:        row.Available,
			},
		})
	}
	return stocks, nil
}

func (r *GormInventoryRepository) locations(ctx context.Context, ids []int64) (map[int64]catalog.PickupLocation, error) {
	var dtos []catalogrepo.PickupLocationDTO
	if err := r.db.WithContext(ctx).Where("id = ANY(?)", pq.Array(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}
	locations := make(map[int64]catalog.PickupLocation, len(dtos))
	for _, dto := range dtos {
		locations[dto.ID] = catalogrepo.ToPickupLocation(dto)
	}
	return locations, nil
}
