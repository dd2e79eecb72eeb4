package carrierflow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	// PrepaidPayment is the only payment method fulfillment sends: orders are paid
	// before any carrier order exists.
	PrepaidPayment = "prepaid"

	// fallbackSide is the parcel side declared when a shipment has no packages.
	fallbackSide = 10.0
)

// OrderInput is everything a forward carrier order is built from.
type OrderInput struct {
	PurchaseOrder  *order.PurchaseOrder
	Summary        *order.Summary
	Shipment       *shipment.Shipment
	PickupLocation catalog.PickupLocation
	CompanyName    string
	Products       map[int64]catalog.Product
	PackageTypes   map[int64]catalog.PackageType
	Now            time.Time
}

// BuildOrderRequest maps a shipment onto a prepaid carrier order. Shipping and billing
// are both the summary's delivery address.
func BuildOrderRequest(in OrderInput) (ports.CarrierOrderRequest, error) {
	nickname := strings.TrimSpace(in.PickupLocation.Nickname)
	if nickname == "" {
		return ports.CarrierOrderRequest{}, errs.NewBadRequest(
			"Pickup location name (addressNickName) is not configured for pickup location ID: %d", in.PickupLocation.ID)
	}

	address := *in.Summary.DeliveryAddress
	if !isNumeric(address.PostalCode) {
		return ports.CarrierOrderRequest{}, errs.NewBadRequest(
			"Billing postal code must be numeric. Provided value: %s", address.PostalCode)
	}
	phone := CleanPhone(address.Phone)
	if len(phone) != 10 {
		provided := address.Phone
		if provided == "" {
			provided = "empty"
		}
		return ports.CarrierOrderRequest{}, errs.NewBadRequest(
			"Billing phone number must be exactly 10 digits. Provided value: %s", provided)
	}
	address.Phone = phone

	req := ports.CarrierOrderRequest{
		OrderID:          fmt.Sprintf("PO_%d", in.PurchaseOrder.ID()),
		OrderDate:        in.Now,
		PickupLocation:   nickname,
		CompanyName:      strings.TrimSpace(in.CompanyName),
		Billing:          address,
		PaymentMethod:    PrepaidPayment,
		SubTotal:         in.Summary.Subtotal.Round(0),
		CourierCompanyID: in.Shipment.CourierID(),
		InvoiceNumber:    strings.TrimSpace(in.PurchaseOrder.Receipt()),
		Items:            orderItems(in),
		Parcel:           forwardParcel(in.Shipment, in.PackageTypes),
	}
	if vendor := strings.TrimSpace(in.PurchaseOrder.VendorNumber()); vendor != "" {
		req.Comment = "Vendor: " + vendor
		req.OrderTag = vendor
	}
	if in.Summary.ShippingTotal.IsPositive() {
		req.ShippingCharges = in.Summary.ShippingTotal.Round(0)
	}
	if in.Summary.DiscountTotal.IsPositive() {
		req.TotalDiscount = in.Summary.DiscountTotal.Round(0)
	}
	return req, nil
}

func orderItems(in OrderInput) []ports.OrderItem {
	items := make([]ports.OrderItem, 0, len(in.Shipment.Products()))
	for _, line := range in.Shipment.Products() {
		product, ok := in.Products[line.ProductID()]
		if !ok {
			continue
		}
		item := ports.OrderItem{
			Name:         product.Title(),
			SKU:          product.SKU(),
			Units:        line.Quantity(),
			SellingPrice: line.AllocatedPrice().Round(0),
		}
		if in.Summary.GSTPercentage != nil {
			item.Tax = in.Summary.GSTPercentage.Truncate(0)
		}
		items = append(items, item)
	}
	return items
}

// forwardParcel adds up each axis over every box used, so two 10 cm boxes declare
// 20 cm on every side. An axis that adds up to zero falls back to 10 cm.
func forwardParcel(s *shipment.Shipment, types map[int64]catalog.PackageType) ports.Parcel {
	var length, breadth, height float64
	for _, line := range s.Packages() {
		pt, ok := types[line.PackageID()]
		if !ok {
			continue
		}
		qty := float64(line.Quantity())
		length += pt.Dimensions().Length() * qty
		breadth += pt.Dimensions().Breadth() * qty
		height += pt.Dimensions().Height() * qty
	}

	return ports.Parcel{
		Length:  orFallback(length),
		Breadth: orFallback(breadth),
		Height:  orFallback(height),
		Weight:  s.TotalWeight(),
	}
}

func orFallback(side float64) float64 {
	if side > 0 {
		return side
	}
	return fallbackSide
}

// ReturnInput is everything a return order is built from.
type ReturnInput struct {
	Shipment  *shipment.Shipment
	Customer  order.Address
	Warehouse catalog.PickupLocation
	Products  map[int64]catalog.Product
	Lines     []returns.Line
	Parcel    returns.Parcel
	Now       time.Time
}

// NewReturnReference returns RET-<shipment id>-<random suffix>.
func NewReturnReference(shipmentID int64) string {
	return fmt.Sprintf("RET-%d-%s", shipmentID, uuid.NewString())
}

// BuildReturnRequest asks the carrier to collect the returned lines from the customer
// and bring them to the warehouse the shipment left from.
func BuildReturnRequest(reference string, in ReturnInput) ports.ReturnOrderRequest {
	subTotal := decimal.Zero
	items := make([]ports.OrderItem, 0, len(in.Lines))
	for _, line := range in.Lines {
		product := in.Products[line.ProductID]
		units := decimal.NewFromInt(int64(line.Quantity))
		subTotal = subTotal.Add(product.Price().Mul(units))
		items = append(items, ports.OrderItem{
			Name:         product.Title(),
			SKU:          product.SKU(),
			Units:        line.Quantity,
			SellingPrice: product.Price(),
		})
	}

	return ports.ReturnOrderRequest{
		OrderID:     reference,
		OrderDate:   in.Now,
		Customer:    in.Customer,
		Warehouse:   in.Warehouse,
		Items:       items,
		SubTotal:    subTotal,
		Parcel:      in.Parcel,
		PaymentMode: "PREPAID",
	}
}

// CleanPhone keeps the digits of a phone number and drops any country prefix beyond
// the last ten digits.
func CleanPhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
