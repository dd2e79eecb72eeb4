package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
)

// Identifiers used by the fixtures below.
const (
	ClientID         int64 = 7
	PurchaseOrderID  int64 = 11
	OrderSummaryID   int64 = 21
	ShipmentID       int64 = 31
	PickupLocationID int64 = 41
	CourierCompanyID int64 = 51
	ProductID        int64 = 101
	SecondProductID  int64 = 102
	PackageID        int64 = 201
)

const (
	AllocatedQuantity = 2
	PackageQuantity   = 1
)

// NewTestPurchaseOrder returns an order awaiting payment.
func NewTestPurchaseOrder() *order.PurchaseOrder {
	po, err := order.RestorePurchaseOrder(PurchaseOrderID, ClientID, OrderSummaryID, "VN-42", "INV-11", order.PendingApproval)
	if err != nil {
		panic(err)
	}
	return po
}

// NewTestAddress returns a deliverable address with a formatted phone number.
func NewTestAddress() order.Address {
	return order.Address{
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Phone:      "+91 (987) 654-3210",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		Country:    "India",
		PostalCode: "560001",
	}
}

// NewTestSummary returns the summary of NewTestPurchaseOrder.
func NewTestSummary() *order.Summary {
	address := NewTestAddress()
	return &order.Summary{
		ID:              OrderSummaryID,
		PurchaseOrderID: PurchaseOrderID,
		DeliveryAddress: &address,
		Subtotal:        decimal.RequireFromString("500"),
		ShippingTotal:   decimal.RequireFromString("60"),
	}
}

// NewTestShipment returns a new shipment of AllocatedQuantity units of ProductID in
// PackageQuantity boxes of PackageID.
func NewTestShipment() *shipment.Shipment {
	return RestoreTestShipment(shipment.New, nil)
}

// NewTestShipmentWithID is NewTestShipment under another id.
func NewTestShipmentWithID(id int64) *shipment.Shipment {
	return restoreTestShipment(id, shipment.New, nil)
}

// RestoreTestShipment returns the fixture shipment in the given status. Shipments
// past New carry carrier identifiers.
func RestoreTestShipment(status shipment.Status, deliveredAt *time.Time) *shipment.Shipment {
	return RestoreTestShipmentWith(status, deliveredAt)
}

// RestoreTestShipmentWith is RestoreTestShipment with extra product lines after the
// ProductID line.
func RestoreTestShipmentWith(status shipment.Status, deliveredAt *time.Time, extra ...shipment.Product) *shipment.Shipment {
	return restoreTestShipment(ShipmentID, status, deliveredAt, extra...)
}

func restoreTestShipment(id int64, status shipment.Status, deliveredAt *time.Time, extra ...shipment.Product) *shipment.Shipment {
	product, err := shipment.NewProduct(ProductID, AllocatedQuantity, decimal.RequireFromString("250"))
	if err != nil {
		panic(err)
	}
	pkg, err := shipment.NewPackage(PackageID, PackageQuantity)
	if err != nil {
		panic(err)
	}

	snap := shipment.Snapshot{
		ID:               id,
		ClientID:         ClientID,
		OrderSummaryID:   OrderSummaryID,
		PickupLocationID: PickupLocationID,
		CourierID:        CourierCompanyID,
		Status:           status,
		TotalWeight:      kernel.MustWeight("1.2"),
		PackagingCost:    decimal.RequireFromString("15"),
		ShippingCost:     decimal.RequireFromString("60"),
		DeliveredAt:      deliveredAt,
		Products:         append([]shipment.Product{product}, extra...),
		Packages:         []shipment.Package{pkg},
	}
	if status != shipment.New {
		snap.CarrierOrderID = "1001"
		snap.CarrierShipmentID = "2001"
		snap.AWBCode = "AWB1001"
	}

	s, err := shipment.RestoreShipment(snap)
	if err != nil {
		panic(err)
	}
	return s
}

// NewTestProduct returns ProductID with the given return window.
func NewTestProduct(returnWindowDays *int) catalog.Product {
	return newTestProduct(ProductID, "Ceramic Mug", "MUG-01", returnWindowDays)
}

// NewTestSecondProduct returns SecondProductID with the given return window.
func NewTestSecondProduct(returnWindowDays *int) catalog.Product {
	return newTestProduct(SecondProductID, "Tea Tray", "TRAY-01", returnWindowDays)
}

func newTestProduct(id int64, title, sku string, returnWindowDays *int) catalog.Product {
	dims, err := kernel.NewDimensions(10, 8, 5)
	if err != nil {
		panic(err)
	}
	p, err := catalog.NewProduct(id, title, sku, decimal.RequireFromString("250"),
		dims, kernel.MustWeight("0.4"), returnWindowDays)
	if err != nil {
		panic(err)
	}
	return p
}

// NewTestPackageType returns PackageID, a 20 cm cube.
func NewTestPackageType() catalog.PackageType {
	dims, err := kernel.NewDimensions(20, 20, 20)
	if err != nil {
		panic(err)
	}
	pt, err := catalog.NewPackageType(PackageID, "Small Box", "BOX", dims, kernel.MustWeight("5"), decimal.RequireFromString("15"))
	if err != nil {
		panic(err)
	}
	return pt
}

// NewTestPickupLocation returns PickupLocationID.
func NewTestPickupLocation() catalog.PickupLocation {
	return catalog.PickupLocation{
		ID:         PickupLocationID,
		ClientID:   ClientID,
		Nickname:   "Main Warehouse",
		PostalCode: "560034",
		Address:    "4 Industrial Area",
		City:       "Bengaluru",
		State:      "Karnataka",
		Phone:      "9876500000",
	}
}

// NewTestClient returns ClientID with carrier credentials.
func NewTestClient() ports.Client {
	return ports.Client{
		ID:          ClientID,
		CompanyName: "Acme Traders",
		Credentials: ports.CarrierCredentials{Email: "ops@acme.test", Password: "secret"},
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
