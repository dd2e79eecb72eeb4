// Package inventoryrepo reads and decrements the per-location stock ledgers of products
// and package types.
package inventoryrepo

// ProductStockDTO maps a product to a pickup location with its available counter.
type ProductStockDTO struct {
	ProductID        int64 `gorm:"primaryKey;autoIncrement:false"`
	PickupLocationID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	Available        int   `gorm:"not null;check:available >= 0"`
}

func (ProductStockDTO) TableName() string {
	return "product_pickup_locations"
}

// PackageStockDTO maps a package type to a pickup location.
type PackageStockDTO struct {
	PackageID        int64 `gorm:"primaryKey;autoIncrement:false"`
	PickupLocationID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	Available        int   `gorm:"not null;check:available >= 0"`
}

func (PackageStockDTO) TableName() string {
	return "package_pickup_locations"
}
