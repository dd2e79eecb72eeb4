package http

import (
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/pkg/errs"
)

type PaymentRequest struct {
	Method         string          `json:"method" validate:"required,oneof=CASH ONLINE"`
	Amount         decimal.Decimal `json:"amount"`
	ReceivedBy     string          `json:"receivedBy"`
	Reference      string          `json:"reference"`
	Notes          string          `json:"notes"`
	GatewayOrderID string          `json:"gatewayOrderId" validate:"required_if=Method ONLINE"`
	PaymentID      string          `json:"paymentId" validate:"required_if=Method ONLINE"`
	Signature      string          `json:"signature" validate:"required_if=Method ONLINE"`
}

func (r PaymentRequest) toMethod(purchaseOrderID int64) payment.Method {
	if r.Method == "ONLINE" {
		return payment.Online{
			OrderID:        purchaseOrderID,
			Paid:           r.Amount,
			GatewayOrderID: r.GatewayOrderID,
			PaymentID:      r.PaymentID,
			Signature:      r.Signature,
		}
	}
	return payment.Cash{
		OrderID:    purchaseOrderID,
		Paid:       r.Amount,
		ReceivedBy: r.ReceivedBy,
		Reference:  r.Reference,
		Notes:      r.Notes,
	}
}

type PaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

type ReturnItemRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

type ParcelRequest struct {
	Length   float64         `json:"length" validate:"gt=0"`
	Breadth  float64         `json:"breadth" validate:"gt=0"`
	Height   float64         `json:"height" validate:"gt=0"`
	WeightKg decimal.Decimal `json:"weightKg"`
}

// ReturnRequest leaves item checks to the return command so its messages reach the
// caller unchanged.
type ReturnRequest struct {
	Items  []ReturnItemRequest `json:"items"`
	Parcel *ParcelRequest      `json:"parcel" validate:"omitempty"`
}

func (r ReturnRequest) toItems() []commands.ReturnItem {
	items := make([]commands.ReturnItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = commands.ReturnItem{ProductID: item.ProductID, Quantity: item.Quantity, Reason: item.Reason}
	}
	return items
}

func (r ReturnRequest) toParcel() (*returns.Parcel, error) {
	if r.Parcel == nil {
		return nil, nil
	}
	dims, err := kernel.NewDimensions(r.Parcel.Length, r.Parcel.Breadth, r.Parcel.Height)
	if err != nil {
		return nil, errs.NewBadRequestWithCause(err, "Invalid parcel dimensions")
	}
	weight, err := kernel.NewWeight(r.Parcel.WeightKg)
	if err != nil || weight.IsZero() {
		return nil, errs.NewBadRequestWithCause(err, "Invalid parcel weight")
	}
	return &returns.Parcel{Dimensions: dims, Weight: weight}, nil
}

type ReturnShipmentResponse struct {
	ID             int64  `json:"id"`
	ShipmentID     int64  `json:"shipmentId"`
	Reference      string `json:"reference"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	CarrierOrderID string `json:"carrierOrderId,omitempty"`
	AWBCode        string `json:"awbCode,omitempty"`
}

func toReturnShipmentResponse(r *returns.ReturnShipment) ReturnShipmentResponse {
	return ReturnShipmentResponse{
		ID:             r.ID(),
		ShipmentID:     r.ShipmentID(),
		Reference:      r.Reference(),
		Type:           r.Type().String(),
		Status:         r.Status().String(),
		CarrierOrderID: r.CarrierOrderID(),
		AWBCode:        r.AWBCode(),
	}
}

type OrderShipmentResponse struct {
	ID           int64           `json:"id"`
	LocationName string          `json:"locationName"`
	Status       string          `json:"status"`
	AWBCode      string          `json:"awbCode"`
	CourierName  string          `json:"courierName"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
}

func toOrderShipmentsResponse(views []queries.OrderShipmentView) []OrderShipmentResponse {
	response := make([]OrderShipmentResponse, len(views))
	for i, v := range views {
		response[i] = OrderShipmentResponse{
			ID:           v.ID,
			LocationName: v.LocationName,
			Status:       v.Status,
			AWBCode:      v.AWBCode,
			CourierName:  v.CourierName,
			ShippingCost: v.ShippingCost,
		}
	}
	return response
}

type ShipmentProductResponse struct {
	ProductID      int64           `json:"productId"`
	Title          string          `json:"title"`
	Quantity       int             `json:"quantity"`
	AllocatedPrice decimal.Decimal `json:"allocatedPrice"`
}

type ShipmentResponse struct {
	ID               int64                     `json:"id"`
	OrderSummaryID   int64                     `json:"orderSummaryId"`
	PickupLocationID int64                     `json:"pickupLocationId"`
	LocationName     string                    `json:"locationName"`
	Status           string                    `json:"status"`
	AWBCode          string                    `json:"awbCode"`
	CourierName      string                    `json:"courierName"`
	LabelURL         string                    `json:"labelUrl"`
	ManifestURL      string                    `json:"manifestUrl"`
	InvoiceURL       string                    `json:"invoiceUrl"`
	TotalWeightKg    decimal.Decimal           `json:"totalWeightKg"`
	PackagingCost    decimal.Decimal           `json:"packagingCost"`
	ShippingCost     decimal.Decimal           `json:"shippingCost"`
	DeliveredAt      *time.Time                `json:"deliveredAt"`
	Products         []ShipmentProductResponse `json:"products"`
}

func toShipmentResponse(s *queries.GetShipmentQueryResponse) ShipmentResponse {
	products := make([]ShipmentProductResponse, len(s.Products))
	for i, p := range s.Products {
		products[i] = ShipmentProductResponse{
			ProductID:      p.ProductID,
			Title:          p.Title,
			Quantity:       p.Quantity,
			AllocatedPrice: p.AllocatedPrice,
		}
	}
	return ShipmentResponse{
		ID:               s.ID,
		OrderSummaryID:   s.OrderSummaryID,
		PickupLocationID: s.PickupLocationID,
		LocationName:     s.LocationName,
		Status:           s.Status,
		AWBCode:          s.AWBCode,
		CourierName:      s.CourierName,
		LabelURL:         s.LabelURL,
		ManifestURL:      s.ManifestURL,
		InvoiceURL:       s.InvoiceURL,
		TotalWeightKg:    s.TotalWeight,
		PackagingCost:    s.PackagingCost,
		ShippingCost:     s.ShippingCost,
		DeliveredAt:      s.DeliveredAt,
		Products:         products,
	}
}

type LocationShipmentRequest struct {
	PickupLocationID int64           `json:"pickupLocationId" validate:"gt=0"`
	LocationName     string          `json:"locationName"`
	PickupPostcode   string          `json:"pickupPostcode" validate:"required"`
	TotalWeightKg    decimal.Decimal `json:"totalWeightKg"`
	TotalQuantity    int             `json:"totalQuantity"`
	ProductIDs       []int64         `json:"productIds"`
}

type CalculateShippingRequest struct {
	DeliveryPostcode string                    `json:"deliveryPostcode" validate:"required,numeric"`
	COD              bool                      `json:"cod"`
	Locations        []LocationShipmentRequest `json:"locations" validate:"required,min=1,dive"`
}

func (r CalculateShippingRequest) toLocations() ([]queries.LocationShipment, error) {
	locations := make([]queries.LocationShipment, len(r.Locations))
	for i, l := range r.Locations {
		weight, err := kernel.NewWeight(l.TotalWeightKg)
		if err != nil {
			return nil, errs.NewBadRequestWithCause(err, "Invalid weight for pickup location %d", l.PickupLocationID)
		}
		locations[i] = queries.LocationShipment{
			PickupLocationID: l.PickupLocationID,
			LocationName:     l.LocationName,
			PickupPostcode:   l.PickupPostcode,
			TotalWeight:      weight,
			TotalQuantity:    l.TotalQuantity,
			ProductIDs:       l.ProductIDs,
		}
	}
	return locations, nil
}

type CourierOptionResponse struct {
	CourierCompanyID      int64           `json:"courierCompanyId"`
	CourierName           string          `json:"courierName"`
	Rate                  decimal.Decimal `json:"rate"`
	EstimatedDeliveryDays string          `json:"estimatedDeliveryDays,omitempty"`
	ETD                   string          `json:"etd,omitempty"`
	Rating                float64         `json:"rating"`
	COD                   bool            `json:"cod"`
}

func toCourierOption(o courier.Option) CourierOptionResponse {
	return CourierOptionResponse{
		CourierCompanyID:      o.CourierCompanyID,
		CourierName:           o.CourierName,
		Rate:                  o.Rate,
		EstimatedDeliveryDays: o.EstimatedDeliveryDays,
		ETD:                   o.ETD,
		Rating:                o.Rating,
		COD:                   o.COD,
	}
}

func toCourierOptions(options []courier.Option) []CourierOptionResponse {
	response := make([]CourierOptionResponse, len(options))
	for i, o := range options {
		response[i] = toCourierOption(o)
	}
	return response
}

func toSelected(o *courier.Option) *CourierOptionResponse {
	if o == nil {
		return nil
	}
	selected := toCourierOption(*o)
	return &selected
}

type LocationShippingResponse struct {
	PickupLocationID int64                   `json:"pickupLocationId"`
	LocationName     string                  `json:"locationName"`
	PickupPostcode   string                  `json:"pickupPostcode"`
	TotalWeightKg    decimal.Decimal         `json:"totalWeightKg"`
	TotalQuantity    int                     `json:"totalQuantity"`
	Couriers         []CourierOptionResponse `json:"couriers"`
	SelectedCourier  *CourierOptionResponse  `json:"selectedCourier"`
}

type CalculateShippingResponse struct {
	Locations         []LocationShippingResponse `json:"locations"`
	TotalShippingCost decimal.Decimal            `json:"totalShippingCost"`
}

func toCalculateShippingResponse(result queries.CalculateShippingResult) CalculateShippingResponse {
	locations := make([]LocationShippingResponse, len(result.Locations))
	for i, l := range result.Locations {
		locations[i] = LocationShippingResponse{
			PickupLocationID: l.PickupLocationID,
			LocationName:     l.LocationName,
			PickupPostcode:   l.PickupPostcode,
			TotalWeightKg:    l.TotalWeight.Kilograms(),
			TotalQuantity:    l.TotalQuantity,
			Couriers:         toCourierOptions(l.Couriers),
			SelectedCourier:  toSelected(l.SelectedCourier),
		}
	}
	return CalculateShippingResponse{Locations: locations, TotalShippingCost: result.TotalShippingCost}
}

type OptimizeOrderRequest struct {
	DeliveryPostcode string                  `json:"deliveryPostcode"`
	COD              bool                    `json:"cod"`
	Quantities       map[int64]int           `json:"quantities"`
	CustomAllocation map[int64]map[int64]int `json:"customAllocation"`
}

type PackageUsageResponse struct {
	PackageID int64           `json:"packageId"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Count     int             `json:"count"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Contents  map[int64]int   `json:"contents,omitempty"`
}

type ProductAllocationResponse struct {
	ProductID     int64           `json:"productId"`
	Title         string          `json:"title"`
	Quantity      int             `json:"quantity"`
	TotalWeightKg decimal.Decimal `json:"totalWeightKg"`
}

type ShipmentGroupResponse struct {
	PickupLocationID int64                       `json:"pickupLocationId"`
	LocationName     string                      `json:"locationName"`
	PickupPostcode   string                      `json:"pickupPostcode"`
	Products         []ProductAllocationResponse `json:"products"`
	Packages         []PackageUsageResponse      `json:"packages"`
	TotalQuantity    int                         `json:"totalQuantity"`
	TotalWeightKg    decimal.Decimal             `json:"totalWeightKg"`
	PackagingCost    decimal.Decimal             `json:"packagingCost"`
	ShippingCost     decimal.Decimal             `json:"shippingCost"`
	TotalCost        decimal.Decimal             `json:"totalCost"`
	Couriers         []CourierOptionResponse     `json:"couriers"`
	SelectedCourier  *CourierOptionResponse      `json:"selectedCourier"`
}

type NoPackagesResponse struct {
	ProductTitle       string   `json:"productTitle"`
	Requested          int      `json:"requested"`
	LocationsEvaluated []string `json:"locationsEvaluated"`
}

type OptimizeOrderResponse struct {
	Success              bool                    `json:"success"`
	ErrorMessage         string                  `json:"errorMessage,omitempty"`
	Description          string                  `json:"description,omitempty"`
	TotalCost            decimal.Decimal         `json:"totalCost"`
	TotalPackagingCost   decimal.Decimal         `json:"totalPackagingCost"`
	TotalShippingCost    decimal.Decimal         `json:"totalShippingCost"`
	ShipmentCount        int                     `json:"shipmentCount"`
	Shipments            []ShipmentGroupResponse `json:"shipments"`
	CanFulfillOrder      bool                    `json:"canFulfillOrder"`
	Shortfall            int                     `json:"shortfall"`
	AllCouriersAvailable bool                    `json:"allCouriersAvailable"`
	UnavailabilityReason string                  `json:"unavailabilityReason,omitempty"`
	TotalProductCount    int                     `json:"totalProductCount"`
	TotalQuantity        int                     `json:"totalQuantity"`
	NoPackages           *NoPackagesResponse     `json:"noPackages,omitempty"`
}

func toPackageUsages(usages []packaging.Usage) []PackageUsageResponse {
	response := make([]PackageUsageResponse, len(usages))
	for i, u := range usages {
		response[i] = PackageUsageResponse{
			PackageID: u.PackageID,
			Name:      u.Name,
			Kind:      u.Kind,
			Count:     u.Count,
			UnitPrice: u.UnitPrice,
			Contents:  u.Contents,
		}
	}
	return response
}

func toOptimizeOrderResponse(result queries.OptimizeOrderResult) OptimizeOrderResponse {
	groups := make([]ShipmentGroupResponse, len(result.Shipments))
	for i, g := range result.Shipments {
		products := make([]ProductAllocationResponse, len(g.Products))
		for j, p := range g.Products {
			products[j] = ProductAllocationResponse{
				ProductID:     p.ProductID,
				Title:         p.Title,
				Quantity:      p.Quantity,
				TotalWeightKg: p.TotalWeight.Kilograms(),
			}
		}
		groups[i] = ShipmentGroupResponse{
			PickupLocationID: g.PickupLocationID,
			LocationName:     g.LocationName,
			PickupPostcode:   g.PickupPostcode,
			Products:         products,
			Packages:         toPackageUsages(g.Packages),
			TotalQuantity:    g.TotalQuantity,
			TotalWeightKg:    g.TotalWeight.Kilograms(),
			PackagingCost:    g.PackagingCost,
			ShippingCost:     g.ShippingCost,
			TotalCost:        g.TotalCost,
			Couriers:         toCourierOptions(g.Couriers),
			SelectedCourier:  toSelected(g.SelectedCourier),
		}
	}

	response := OptimizeOrderResponse{
		Success:              result.Success,
		ErrorMessage:         result.ErrorMessage,
		Description:          result.Description,
		TotalCost:            result.TotalCost,
		TotalPackagingCost:   result.TotalPackagingCost,
		TotalShippingCost:    result.TotalShippingCost,
		ShipmentCount:        result.ShipmentCount,
		Shipments:            groups,
		CanFulfillOrder:      result.CanFulfillOrder,
		Shortfall:            result.Shortfall,
		AllCouriersAvailable: result.AllCouriersAvailable,
		UnavailabilityReason: result.UnavailabilityReason,
		TotalProductCount:    result.TotalProductCount,
		TotalQuantity:        result.TotalQuantity,
	}
	if np := result.NoPackages; np != nil {
		response.NoPackages = &NoPackagesResponse{
			ProductTitle:       np.ProductTitle,
			Requested:          np.Requested,
			LocationsEvaluated: np.LocationsEvaluated,
		}
	}
	return response
}

type WalletBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}
