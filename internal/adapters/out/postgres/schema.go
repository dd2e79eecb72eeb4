package postgres

import (
	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/clientrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/returnrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
)

// Models lists every table the service reads or writes, parents before children.
func Models() []any {
	return []any{
		&clientrepo.ClientDTO{},
		&catalogrepo.ProductDTO{},
		&catalogrepo.PackageTypeDTO{},
		&catalogrepo.PickupLocationDTO{},
		&inventoryrepo.ProductStockDTO{},
		&inventoryrepo.PackageStockDTO{},
		&orderrepo.OrderSummaryDTO{},
		&orderrepo.PurchaseOrderDTO{},
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.ShipmentProductDTO{},
		&shipmentrepo.ShipmentPackageDTO{},
		&returnrepo.ReturnShipmentDTO{},
		&returnrepo.ReturnLineDTO{},
		&auditrepo.AuditLogDTO{},
	}
}

// Migrate creates or alters the tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
