package shipment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrShipmentIsNotConstructed = errors.New("shipment must be created via NewShipment or RestoreShipment")

// Shipment is the aggregate root for one parcel group of an order.
//
// Invariants:
//   - belongs to exactly one client, order summary and pickup location
//   - carries at least one product line
//   - carrier order and shipment ids are either both empty or both set, and are set
//     only once through RecordCarrierOrder
//   - status changes go through Status transitions
type Shipment struct {
	id               int64
	clientID         int64
	orderSummaryID   int64
	pickupLocationID int64
	courierID        int64

	status            Status
	carrierOrderID    string
	carrierShipmentID string
	awbCode           string
	courierName       string

	labelURL     string
	manifestURL  string
	invoiceURL   string
	orderDetails string

	awbDetails      string
	pickupDetails   string
	trackingDetails string

	totalWeight   kernel.Weight
	packagingCost decimal.Decimal
	shippingCost  decimal.Decimal
	deliveredAt   *time.Time

	products []Product
	packages []Package

	isConstructed bool
}

// NewShipment creates a shipment in status New, before any carrier call.
func NewShipment(
	clientID, orderSummaryID, pickupLocationID, courierID int64,
	totalWeight kernel.Weight,
	packagingCost, shippingCost decimal.Decimal,
	products []Product,
	packages []Package,
) (*Shipment, error) {
	s := &Shipment{
		status:        New,
		courierID:     courierID,
		totalWeight:   totalWeight,
		packagingCost: packagingCost,
		shippingCost:  shippingCost,
		packages:      packages,
		isConstructed: true,
	}

	if err := errors.Join(
		setPositiveID("client id", &s.clientID, clientID),
		setPositiveID("order summary id", &s.orderSummaryID, orderSummaryID),
		setPositiveID("pickup location id", &s.pickupLocationID, pickupLocationID),
		s.setProducts(products),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Snapshot is the persisted form of a shipment, used by repositories to restore it.
type Snapshot struct {
	ID                int64
	ClientID          int64
	OrderSummaryID    int64
	PickupLocationID  int64
	CourierID         int64
	Status            Status
	CarrierOrderID    string
	CarrierShipmentID string
	AWBCode           string
	CourierName       string
	LabelURL          string
	ManifestURL       string
	InvoiceURL        string
	OrderDetails      string
	AWBDetails        string
	PickupDetails     string
	TrackingDetails   string
	TotalWeight       kernel.Weight
	PackagingCost     decimal.Decimal
	ShippingCost      decimal.Decimal
	DeliveredAt       *time.Time
	Products          []Product
	Packages          []Package
}

// RestoreShipment rebuilds a shipment read from storage. It checks the same invariants
// as NewShipment plus the carrier id pairing.
func RestoreShipment(snap Snapshot) (*Shipment, error) {
	if (snap.CarrierOrderID == "") != (snap.CarrierShipmentID == "") {
		return nil, errs.NewValueIsInvalidErrorWithCause("carrier ids",
			fmt.Errorf("shipment %d has only one of carrier order id and carrier shipment id", snap.ID))
	}
	if err := snap.Status.Validate(); err != nil {
		return nil, err
	}

	s := &Shipment{
		id:                snap.ID,
		courierID:         snap.CourierID,
		status:            snap.Status,
		carrierOrderID:    snap.CarrierOrderID,
		carrierShipmentID: snap.CarrierShipmentID,
		awbCode:           snap.AWBCode,
		courierName:       snap.CourierName,
		labelURL:          snap.LabelURL,
		manifestURL:       snap.ManifestURL,
		invoiceURL:        snap.InvoiceURL,
		orderDetails:      snap.OrderDetails,
		awbDetails:        snap.AWBDetails,
		pickupDetails:     snap.PickupDetails,
		trackingDetails:   snap.TrackingDetails,
		totalWeight:       snap.TotalWeight,
		packagingCost:     snap.PackagingCost,
		shippingCost:      snap.ShippingCost,
		deliveredAt:       snap.DeliveredAt,
		packages:          snap.Packages,
		isConstructed:     true,
	}

	if err := errors.Join(
		setPositiveID("client id", &s.clientID, snap.ClientID),
		setPositiveID("order summary id", &s.orderSummaryID, snap.OrderSummaryID),
		setPositiveID("pickup location id", &s.pickupLocationID, snap.PickupLocationID),
		s.setProducts(snap.Products),
	); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

func (s *Shipment) ID() int64                      { return s.id }
func (s *Shipment) ClientID() int64                { return s.clientID }
func (s *Shipment) OrderSummaryID() int64          { return s.orderSummaryID }
func (s *Shipment) PickupLocationID() int64        { return s.pickupLocationID }
func (s *Shipment) CourierID() int64               { return s.courierID }
func (s *Shipment) Status() Status                 { return s.status }
func (s *Shipment) CarrierOrderID() string         { return s.carrierOrderID }
func (s *Shipment) CarrierShipmentID() string      { return s.carrierShipmentID }
func (s *Shipment) AWBCode() string                { return s.awbCode }
func (s *Shipment) CourierName() string            { return s.courierName }
func (s *Shipment) LabelURL() string               { return s.labelURL }
func (s *Shipment) ManifestURL() string            { return s.manifestURL }
func (s *Shipment) InvoiceURL() string             { return s.invoiceURL }
func (s *Shipment) OrderDetails() string           { return s.orderDetails }
func (s *Shipment) AWBDetails() string             { return s.awbDetails }
func (s *Shipment) PickupDetails() string          { return s.pickupDetails }
func (s *Shipment) TrackingDetails() string        { return s.trackingDetails }
func (s *Shipment) TotalWeight() kernel.Weight     { return s.totalWeight }
func (s *Shipment) PackagingCost() decimal.Decimal { return s.packagingCost }
func (s *Shipment) ShippingCost() decimal.Decimal  { return s.shippingCost }
func (s *Shipment) DeliveredAt() *time.Time        { return s.deliveredAt }

func (s *Shipment) Products() []Product {
	return append([]Product(nil), s.products...)
}

func (s *Shipment) Packages() []Package {
	return append([]Package(nil), s.packages...)
}

// AssignID is called by the repository after the first insert.
func (s *Shipment) AssignID(id int64) {
	if s.id == 0 {
		s.id = id
	}
}

// ProductLine returns the line for productID, if the shipment carries that product.
func (s *Shipment) ProductLine(productID int64) (Product, bool) {
	for _, p := range s.products {
		if p.productID == productID {
			return p, true
		}
	}
	return Product{}, false
}

// AllocatedUnits is the total number of product units in the shipment.
func (s *Shipment) AllocatedUnits() int {
	total := 0
	for _, p := range s.products {
		total += p.quantity
	}
	return total
}

// HasCarrierOrder reports whether the carrier accepted an order for this shipment.
func (s *Shipment) HasCarrierOrder() bool {
	return s.carrierOrderID != ""
}

// RecordCarrierOrder stores the identifiers returned by the carrier's create-order call.
func (s *Shipment) RecordCarrierOrder(orderID, shipmentID string, status Status) error {
	if s.HasCarrierOrder() {
		return errs.NewValueIsInvalidErrorWithCause("carrier order id",
			fmt.Errorf("shipment %d already has carrier order %s", s.id, s.carrierOrderID))
	}
	if orderID == "" {
		return errs.NewValueIsRequiredError("carrier order id")
	}
	if shipmentID == "" {
		return errs.NewValueIsRequiredError("carrier shipment id")
	}
	if err := status.Validate(); err != nil {
		return err
	}

	s.carrierOrderID = orderID
	s.carrierShipmentID = shipmentID
	s.status = status
	return nil
}

// AssignAWB stores the waybill code and the courier the carrier assigned.
func (s *Shipment) AssignAWB(code, courierName string) {
	if code == "" {
		return
	}
	s.awbCode = code
	if courierName != "" {
		s.courierName = courierName
	}
}

// AttachAWBDetails keeps the raw AWB assignment payload.
func (s *Shipment) AttachAWBDetails(details string) { s.awbDetails = details }

// AttachPickup keeps the raw pickup generation payload.
func (s *Shipment) AttachPickup(details string) { s.pickupDetails = details }

// AttachTracking keeps the latest raw tracking payload.
func (s *Shipment) AttachTracking(details string) { s.trackingDetails = details }

func (s *Shipment) AttachLabel(url string)    { s.labelURL = url }
func (s *Shipment) AttachManifest(url string) { s.manifestURL = url }
func (s *Shipment) AttachInvoice(url string)  { s.invoiceURL = url }

// AttachOrderDetails keeps the raw carrier order payload for support lookups.
func (s *Shipment) AttachOrderDetails(details string) { s.orderDetails = details }

// Cancel moves the shipment to Cancelled.
func (s *Shipment) Cancel() error {
	next, err := s.status.Cancel()
	if err != nil {
		return err
	}
	s.status = next
	return nil
}

// ApplyCarrierStatus records a status from carrier tracking. Backward moves are ignored.
// The delivered timestamp is set the first time Delivered is reported.
func (s *Shipment) ApplyCarrierStatus(reported Status, at time.Time) bool {
	next, changed := s.status.Advance(reported)
	if !changed {
		return false
	}
	s.status = next
	if next == Delivered && s.deliveredAt == nil {
		deliveredAt := at
		s.deliveredAt = &deliveredAt
	}
	return true
}

// InitiateReturn moves a delivered shipment into the return flow.
func (s *Shipment) InitiateReturn(full bool) error {
	next, err := s.status.InitiateReturn(full)
	if err != nil {
		return err
	}
	s.status = next
	return nil
}

func (s *Shipment) setProducts(products []Product) error {
	if len(products) == 0 {
		return errs.NewValueIsRequiredError("products")
	}
	s.products = products
	return nil
}
