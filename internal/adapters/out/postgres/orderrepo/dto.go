// Package orderrepo persists purchase orders and reads the order summaries the checkout
// captured for them.
package orderrepo

import (
	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/order"
)

// PurchaseOrderDTO represents the database structure for purchase orders. Status is
// stored by name.
type PurchaseOrderDTO struct {
	ID             int64  `gorm:"primaryKey;autoIncrement:false"`
	ClientID       int64  `gorm:"not null;index"`
	OrderSummaryID int64  `gorm:"not null;uniqueIndex"`
	VendorNumber   string `gorm:"type:varchar(64)"`
	Receipt        string `gorm:"type:varchar(64)"`
	Status         string `gorm:"type:varchar(40);not null"`
}

func (PurchaseOrderDTO) TableName() string {
	return "purchase_orders"
}

// OrderSummaryDTO is written by the storefront. A summary without a delivery postcode
// and first line has no usable address.
type OrderSummaryDTO struct {
	ID              int64            `gorm:"primaryKey;autoIncrement:false"`
	PurchaseOrderID int64            `gorm:"index"`
	Delivery        AddressDTO       `gorm:"embedded;embeddedPrefix:delivery_"`
	Subtotal        decimal.Decimal  `gorm:"type:numeric(12,2)"`
	ShippingTotal   decimal.Decimal  `gorm:"type:numeric(12,2)"`
	DiscountTotal   decimal.Decimal  `gorm:"type:numeric(12,2)"`
	GSTPercentage   *decimal.Decimal `gorm:"column:gst_percentage;type:numeric(5,2)"`
}

func (OrderSummaryDTO) TableName() string {
	return "order_summaries"
}

type AddressDTO struct {
	Name       string
	Email      string
	Phone      string
	Line1      string `gorm:"column:line1"`
	Line2      string `gorm:"column:line2"`
	City       string
	State      string
	Country    string
	PostalCode string
}

func fromDomain(po *order.PurchaseOrder) PurchaseOrderDTO {
	return PurchaseOrderDTO{
		ID:             po.ID(),
		ClientID:       po.ClientID(),
		OrderSummaryID: po.OrderSummaryID(),
		VendorNumber:   po.VendorNumber(),
		Receipt:        po.Receipt(),
		Status:         po.Status().String(),
	}
}

func toDomain(dto PurchaseOrderDTO) (*order.PurchaseOrder, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return order.RestorePurchaseOrder(dto.ID, dto.ClientID, dto.OrderSummaryID, dto.VendorNumber, dto.Receipt, status)
}

func summaryToDomain(dto OrderSummaryDTO) *order.Summary {
	summary := &order.Summary{
		ID:              dto.ID,
		PurchaseOrderID: dto.PurchaseOrderID,
		Subtotal:        dto.Subtotal,
		ShippingTotal:   dto.ShippingTotal,
		DiscountTotal:   dto.DiscountTotal,
		GSTPercentage:   dto.GSTPercentage,
	}

	addr := order.Address(dto.Delivery)
	if !addr.IsZero() {
		summary.DeliveryAddress = &addr
	}
	return summary
}

// FromSummary is used by tests and seeders.
func FromSummary(s *order.Summary) OrderSummaryDTO {
	dto := OrderSummaryDTO{
		ID:              s.ID,
		PurchaseOrderID: s.PurchaseOrderID,
		Subtotal:        s.Subtotal,
		ShippingTotal:   s.ShippingTotal,
		DiscountTotal:   s.DiscountTotal,
		GSTPercentage:   s.GSTPercentage,
	}
	if s.DeliveryAddress != nil {
		dto.Delivery = AddressDTO(*s.DeliveryAddress)
	}
	return dto
}
