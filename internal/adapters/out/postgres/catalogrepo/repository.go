package catalogrepo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/pkg/errs"
)

// GormCatalogRepository implements ports.CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Product retrieves a product by ID.
func (r *GormCatalogRepository) Product(ctx context.Context, id int64) (catalog.Product, error) {
	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Product{}, errs.NewObjectNotFoundError("product", id)
		}
		return catalog.Product{}, err
	}
	return ToProduct(dto)
}

// Products retrieves the products among ids. Unknown ids are skipped.
func (r *GormCatalogRepository) Products(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	products := make(map[int64]catalog.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id = ANY(?)", pq.Array(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		p, err := ToProduct(dto)
		if err != nil {
			return nil, err
		}
		products[p.ID()] = p
	}
	return products, nil
}

// PickupLocation retrieves a pickup location by ID.
func (r *GormCatalogRepository) PickupLocation(ctx context.Context, id int64) (catalog.PickupLocation, error) {
	var dto PickupLocationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.PickupLocation{}, errs.NewObjectNotFoundError("pickup location", id)
		}
		return catalog.PickupLocation{}, err
	}
	return ToPickupLocation(dto), nil
}

// PackageTypes retrieves the package types among ids. Unknown ids are skipped.
func (r *GormCatalogRepository) PackageTypes(ctx context.Context, ids []int64) (map[int64]catalog.PackageType, error) {
	types := make(map[int64]catalog.PackageType, len(ids))
	if len(ids) == 0 {
		return types, nil
	}

	var dtos []PackageTypeDTO
	if err := r.db.WithContext(ctx).Where("id = ANY(?)", pq.Array(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		pt, err := ToPackageType(dto)
		if err != nil {
			return nil, err
		}
		types[pt.ID()] = pt
	}
	return types, nil
}
