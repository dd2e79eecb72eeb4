package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/returns"
)

// CarrierClientFactory builds a carrier client authenticated with one client's
// credentials.
type CarrierClientFactory interface {
	ForClient(credentials CarrierCredentials) CarrierClient
}

// CarrierClient is the shipping aggregator's API as the fulfillment core uses it.
//
// Errors are transport or carrier failures. Business errors the carrier reports inside
// a well-formed create-order response are returned in CarrierOrderResponse.Message
// instead, so that the caller can name the shipment.
type CarrierClient interface {
	AvailableShippingOptions(ctx context.Context, query courier.RateQuery) ([]courier.Option, error)

	// CreateOrder returns (nil, nil) when the carrier answered with an empty body.
	CreateOrder(ctx context.Context, request CarrierOrderRequest) (*CarrierOrderResponse, error)
	AssignAWB(ctx context.Context, carrierShipmentID, courierCompanyID int64) (*AWBResponse, error)
	GeneratePickup(ctx context.Context, carrierShipmentID int64) (string, error)
	GenerateManifest(ctx context.Context, carrierShipmentID int64) (string, error)
	GenerateLabel(ctx context.Context, carrierShipmentID int64) (string, error)
	GenerateInvoice(ctx context.Context, carrierOrderID int64) (string, error)
	Tracking(ctx context.Context, awbCode string) (*TrackingInfo, error)
	OrderDetails(ctx context.Context, carrierOrderID int64) (string, error)
	CancelOrders(ctx context.Context, carrierOrderIDs []int64) error

	CreateReturnOrder(ctx context.Context, request ReturnOrderRequest) (*CarrierOrderResponse, error)
	AssignReturnAWB(ctx context.Context, carrierShipmentID int64) (*AWBResponse, error)

	WalletBalance(ctx context.Context) (decimal.Decimal, error)
}

// OrderItem is one line of a carrier order.
type OrderItem struct {
	Name         string
	SKU          string
	Units        int
	SellingPrice decimal.Decimal
	Tax          decimal.Decimal
}

// Parcel is the size and weight declared to the carrier.
type Parcel struct {
	Length  float64
	Breadth float64
	Height  float64
	Weight  kernel.Weight
}

// CarrierOrderRequest is a forward shipment order.
//
// PickupLocation is the nickname the location was registered with at the carrier.
// Billing is also the shipping address. Zero-valued optional amounts are omitted.
type CarrierOrderRequest struct {
	OrderID          string
	OrderDate        time.Time
	PickupLocation   string
	CompanyName      string
	Comment          string
	OrderTag         string
	InvoiceNumber    string
	CourierCompanyID int64
	Billing          order.Address
	PaymentMethod    string
	SubTotal         decimal.Decimal
	ShippingCharges  decimal.Decimal
	TotalDiscount    decimal.Decimal
	Items            []OrderItem
	Parcel           Parcel
}

// CarrierOrderResponse is the carrier's answer to a create-order call. Zero ids and an
// empty status mean the field was missing.
type CarrierOrderResponse struct {
	OrderID          int64
	ShipmentID       int64
	Status           string
	Message          string
	AWBCode          string
	CourierCompanyID int64
	CourierName      string
	Raw              string
}

// AWBResponse is the result of a waybill assignment.
type AWBResponse struct {
	AWBCode          string
	CourierCompanyID int64
	CourierName      string
	Raw              string
}

// TrackingInfo is the latest tracking state of a waybill.
type TrackingInfo struct {
	Status      string
	DeliveredAt *time.Time
	Raw         string
}

// ReturnOrderRequest asks the carrier to collect a return from the customer and bring
// it back to the pickup location the shipment left from.
type ReturnOrderRequest struct {
	OrderID     string
	OrderDate   time.Time
	Customer    order.Address
	Warehouse   catalog.PickupLocation
	Items       []OrderItem
	SubTotal    decimal.Decimal
	Parcel      returns.Parcel
	PaymentMode string
}
