// Package shipmentrepo persists shipment aggregates with their product and package lines.
package shipmentrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
)

// ShipmentDTO is the shipments row. Status is stored by name so the table stays
// readable from SQL.
type ShipmentDTO struct {
	ID                int64 `gorm:"primaryKey;autoIncrement"`
	ClientID          int64 `gorm:"not null;index"`
	OrderSummaryID    int64 `gorm:"not null;index"`
	PickupLocationID  int64 `gorm:"not null"`
	CourierID         int64
	Status            string `gorm:"type:varchar(32);not null;index"`
	CarrierOrderID    string `gorm:"type:varchar(64)"`
	CarrierShipmentID string `gorm:"type:varchar(64)"`
	AWBCode           string `gorm:"column:awb_code;type:varchar(64);index"`
	CourierName       string
	LabelURL          string
	ManifestURL       string
	InvoiceURL        string
	OrderDetails      string          `gorm:"type:text"`
	AWBDetails        string          `gorm:"column:awb_details;type:text"`
	PickupDetails     string          `gorm:"type:text"`
	TrackingDetails   string          `gorm:"type:text"`
	TotalWeightKg     decimal.Decimal `gorm:"type:numeric(10,3)"`
	PackagingCost     decimal.Decimal `gorm:"type:numeric(12,2)"`
	ShippingCost      decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveredAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Products []ShipmentProductDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	Packages []ShipmentPackageDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

type ShipmentProductDTO struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	ShipmentID     int64           `gorm:"not null;index"`
	ProductID      int64           `gorm:"not null"`
	Quantity       int             `gorm:"not null"`
	AllocatedPrice decimal.Decimal `gorm:"type:numeric(12,2)"`
}

func (ShipmentProductDTO) TableName() string {
	return "shipment_products"
}

type ShipmentPackageDTO struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	ShipmentID int64 `gorm:"not null;index"`
	PackageID  int64 `gorm:"not null"`
	Quantity   int   `gorm:"not null"`
}

func (ShipmentPackageDTO) TableName() string {
	return "shipment_packages"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	dto := ShipmentDTO{
		ID:                s.ID(),
		ClientID:          s.ClientID(),
		OrderSummaryID:    s.OrderSummaryID(),
		PickupLocationID:  s.PickupLocationID(),
		CourierID:         s.CourierID(),
		Status:            s.Status().String(),
		CarrierOrderID:    s.CarrierOrderID(),
		CarrierShipmentID: s.CarrierShipmentID(),
		AWBCode:           s.AWBCode(),
		CourierName:       s.CourierName(),
		LabelURL:          s.LabelURL(),
		ManifestURL:       s.ManifestURL(),
		InvoiceURL:        s.InvoiceURL(),
		OrderDetails:      s.OrderDetails(),
		AWBDetails:        s.AWBDetails(),
		PickupDetails:     s.PickupDetails(),
		TrackingDetails:   s.TrackingDetails(),
		TotalWeightKg:     s.TotalWeight().Kilograms(),
		PackagingCost:     s.PackagingCost(),
		ShippingCost:      s.ShippingCost(),
		DeliveredAt:       s.DeliveredAt(),
	}

	for _, p := range s.Products() {
		dto.Products = append(dto.Products, ShipmentProductDTO{
			ShipmentID:     s.ID(),
			ProductID:      p.ProductID(),
			Quantity:       p.Quantity(),
			AllocatedPrice: p.AllocatedPrice(),
		})
	}
	for _, p := range s.Packages() {
		dto.Packages = append(dto.Packages, ShipmentPackageDTO{
			ShipmentID: s.ID(),
			PackageID:  p.PackageID(),
			Quantity:   p.Quantity(),
		})
	}
	return dto
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	status, err := shipment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	weight, err := kernel.NewWeight(dto.TotalWeightKg)
	if err != nil {
		return nil, err
	}

	products := make([]shipment.Product, 0, len(dto.Products))
	for _, row := range dto.Products {
		p, err := shipment.NewProduct(row.ProductID, row.Quantity, row.AllocatedPrice)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	packages := make([]shipment.Package, 0, len(dto.Packages))
	for _, row := range dto.Packages {
		p, err := shipment.NewPackage(row.PackageID, row.Quantity)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}

	return shipment.RestoreShipment(shipment.Snapshot{
		ID:                dto.ID,
		ClientID:          dto.ClientID,
		OrderSummaryID:    dto.OrderSummaryID,
		PickupLocationID:  dto.PickupLocationID,
		CourierID:         dto.CourierID,
		Status:            status,
		CarrierOrderID:    dto.CarrierOrderID,
		CarrierShipmentID: dto.CarrierShipmentID,
		AWBCode:           dto.AWBCode,
		CourierName:       dto.CourierName,
		LabelURL:          dto.LabelURL,
		ManifestURL:       dto.ManifestURL,
		InvoiceURL:        dto.InvoiceURL,
		OrderDetails:      dto.OrderDetails,
		AWBDetails:        dto.AWBDetails,
		PickupDetails:     dto.PickupDetails,
		TrackingDetails:   dto.TrackingDetails,
		TotalWeight:       weight,
		PackagingCost:     dto.PackagingCost,
		ShippingCost:      dto.ShippingCost,
		DeliveredAt:       dto.DeliveredAt,
		Products:          products,
		Packages:          packages,
	})
}
