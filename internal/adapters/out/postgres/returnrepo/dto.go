// Package returnrepo persists return shipments and their returned product lines.
package returnrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/returns"
)

type ReturnShipmentDTO struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	ShipmentID        int64     `gorm:"not null;index"`
	ClientID          int64     `gorm:"not null"`
	Reference         string    `gorm:"type:varchar(64);uniqueIndex"`
	Type              string    `gorm:"type:varchar(32);not null"`
	Status            string    `gorm:"type:varchar(32);not null"`
	Parcel            ParcelDTO `gorm:"embedded;embeddedPrefix:parcel_"`
	CarrierOrderID    string    `gorm:"type:varchar(64)"`
	CarrierShipmentID string    `gorm:"type:varchar(64)"`
	AWBCode           string    `gorm:"column:awb_code;type:varchar(64)"`
	CarrierResponse   string    `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Lines []ReturnLineDTO `gorm:"foreignKey:ReturnShipmentID;constraint:OnDelete:CASCADE"`
}

func (ReturnShipmentDTO) TableName() string {
	return "return_shipments"
}

// ParcelDTO is the declared size of the return in centimetres and kilograms.
type ParcelDTO struct {
	Length   float64
	Breadth  float64
	Height   float64
	WeightKg decimal.Decimal `gorm:"type:numeric(10,3)"`
}

type ReturnLineDTO struct {
	ID               int64 `gorm:"primaryKey;autoIncrement"`
	ReturnShipmentID int64 `gorm:"not null;index"`
	ProductID        int64 `gorm:"not null"`
	Quantity         int   `gorm:"not null"`
	Reason           string
}

func (ReturnLineDTO) TableName() string {
	return "return_shipment_products"
}

func fromDomain(r *returns.ReturnShipment) ReturnShipmentDTO {
	parcel := r.Parcel()
	dto := ReturnShipmentDTO{
		ID:         r.ID(),
		ShipmentID: r.ShipmentID(),
		ClientID:   r.ClientID(),
		Reference:  r.Reference(),
		Type:       r.Type().String(),
		Status:     r.Status().String(),
		Parcel: ParcelDTO{
			Length:   parcel.Dimensions.Length(),
			Breadth:  parcel.Dimensions.Breadth(),
			Height:   parcel.Dimensions.Height(),
			WeightKg: parcel.Weight.Kilograms(),
		},
		CarrierOrderID:    r.CarrierOrderID(),
		CarrierShipmentID: r.CarrierShipmentID(),
		AWBCode:           r.AWBCode(),
		CarrierResponse:   r.CarrierResponse(),
	}
	for _, l := range r.Lines() {
		dto.Lines = append(dto.Lines, ReturnLineDTO{
			ReturnShipmentID: r.ID(),
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			Reason:           l.Reason,
		})
	}
	return dto
}

func toDomain(dto ReturnShipmentDTO) (*returns.ReturnShipment, error) {
	status, err := returns.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	returnType, err := returns.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}
	dims, err := kernel.NewDimensions(dto.Parcel.Length, dto.Parcel.Breadth, dto.Parcel.Height)
	if err != nil {
		return nil, err
	}
	weight, err := kernel.NewWeight(dto.Parcel.WeightKg)
	if err != nil {
		return nil, err
	}

	lines := make([]returns.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		lines = append(lines, returns.Line{ProductID: l.ProductID, Quantity: l.Quantity, Reason: l.Reason})
	}

	return returns.RestoreReturnShipment(returns.Snapshot{
		ID:                dto.ID,
		ShipmentID:        dto.ShipmentID,
		ClientID:          dto.ClientID,
		Reference:         dto.Reference,
		Type:              returnType,
		Status:            status,
		Parcel:            returns.Parcel{Dimensions: dims, Weight: weight},
		Lines:             lines,
		CarrierOrderID:    dto.CarrierOrderID,
		CarrierShipmentID: dto.CarrierShipmentID,
		AWBCode:           dto.AWBCode,
		CarrierResponse:   dto.CarrierResponse,
	})
}
