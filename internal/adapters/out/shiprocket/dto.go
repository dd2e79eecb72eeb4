package shiprocket

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

const orderDateLayout = "2006-01-02 15:04"

// flexString accepts a JSON string or number. The carrier is inconsistent about which
// one it sends for codes and day counts.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexInt accepts a JSON number, a numeric string or an empty string (zero).
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	raw := strings.TrimSpace(string(s))
	if raw == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type serviceabilityResponse struct {
	Status int `json:"status"`
	Data   struct {
		AvailableCourierCompanies []courierCompany `json:"available_courier_companies"`
	} `json:"data"`
}

type courierCompany struct {
	CourierCompanyID      flexInt         `json:"courier_company_id"`
	CourierName           string          `json:"courier_name"`
	Rate                  decimal.Decimal `json:"rate"`
	EstimatedDeliveryDays flexString      `json:"estimated_delivery_days"`
	ETD                   string          `json:"etd"`
	Rating                float64         `json:"rating"`
	MinWeight             decimal.Decimal `json:"min_weight"`
	COD                   int             `json:"cod"`
}

type orderItemPayload struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Units        int    `json:"units"`
	SellingPrice int64  `json:"selling_price"`
	Tax          int64  `json:"tax,omitempty"`
}

type orderPayload struct {
	OrderID        string `json:"order_id"`
	OrderDate      string `json:"order_date"`
	PickupLocation string `json:"pickup_location"`
	ChannelID      string `json:"channel_id"`
	Comment        string `json:"comment,omitempty"`
	ResellerName   string `json:"reseller_name,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`

	BillingCustomerName string `json:"billing_customer_name"`
	BillingLastName     string `json:"billing_last_name,omitempty"`
	BillingAddress      string `json:"billing_address"`
	BillingAddress2     string `json:"billing_address_2,omitempty"`
	BillingCity         string `json:"billing_city"`
	BillingPincode      string `json:"billing_pincode"`
	BillingState        string `json:"billing_state"`
	BillingCountry      string `json:"billing_country"`
	BillingEmail        string `json:"billing_email"`
	BillingPhone        string `json:"billing_phone"`
	BillingIsdCode      string `json:"billing_isd_code"`

	ShippingIsBilling    bool   `json:"shipping_is_billing"`
	ShippingCustomerName string `json:"shipping_customer_name"`
	ShippingLastName     string `json:"shipping_last_name,omitempty"`
	ShippingAddress      string `json:"shipping_address"`
	ShippingAddress2     string `json:"shipping_address_2,omitempty"`
	ShippingCity         string `json:"shipping_city"`
	ShippingPincode      string `json:"shipping_pincode"`
	ShippingState        string `json:"shipping_state"`
	ShippingCountry      string `json:"shipping_country"`
	ShippingEmail        string `json:"shipping_email"`
	ShippingPhone        string `json:"shipping_phone"`

	OrderItems      []orderItemPayload `json:"order_items"`
	PaymentMethod   string             `json:"payment_method"`
	ShippingCharges int64              `json:"shipping_charges,omitempty"`
	TotalDiscount   int64              `json:"total_discount,omitempty"`
	SubTotal        int64              `json:"sub_total"`
	Length          float64            `json:"length"`
	Breadth         float64            `json:"breadth"`
	Height          float64            `json:"height"`
	Weight          float64            `json:"weight"`
	CourierID       int64              `json:"courier_id,omitempty"`
	InvoiceNumber   string             `json:"invoice_number,omitempty"`
	OrderTag        string             `json:"order_tag,omitempty"`
	IsDocument      int                `json:"is_document"`
}

func toOrderPayload(r ports.CarrierOrderRequest) orderPayload {
	a := r.Billing
	return orderPayload{
		OrderID:        r.OrderID,
		OrderDate:      r.OrderDate.Format(orderDateLayout),
		PickupLocation: r.PickupLocation,
		Comment:        r.Comment,
		ResellerName:   r.Comment,
		CompanyName:    r.CompanyName,

		BillingCustomerName: a.FirstName(),
		BillingLastName:     a.LastName(),
		BillingAddress:      a.Line1,
		BillingAddress2:     a.Line2,
		BillingCity:         a.City,
		BillingPincode:      a.PostalCode,
		BillingState:        a.State,
		BillingCountry:      a.Country,
		BillingEmail:        a.Email,
		BillingPhone:        a.Phone,
		BillingIsdCode:      "+91",

		ShippingIsBilling:    true,
		ShippingCustomerName: a.FirstName(),
		ShippingLastName:     a.LastName(),
		ShippingAddress:      a.Line1,
		ShippingAddress2:     a.Line2,
		ShippingCity:         a.City,
		ShippingPincode:      a.PostalCode,
		ShippingState:        a.State,
		ShippingCountry:      a.Country,
		ShippingEmail:        a.Email,
		ShippingPhone:        a.Phone,

		OrderItems:      toItemPayloads(r.Items),
		PaymentMethod:   r.PaymentMethod,
		ShippingCharges: r.ShippingCharges.IntPart(),
		TotalDiscount:   r.TotalDiscount.IntPart(),
		SubTotal:        r.SubTotal.IntPart(),
		Length:          r.Parcel.Length,
		Breadth:         r.Parcel.Breadth,
		Height:          r.Parcel.Height,
		Weight:          r.Parcel.Weight.Float64(),
		CourierID:       r.CourierCompanyID,
		InvoiceNumber:   r.InvoiceNumber,
		OrderTag:        r.OrderTag,
	}
}

func toItemPayloads(items []ports.OrderItem) []orderItemPayload {
	out := make([]orderItemPayload, 0, len(items))
	for _, it := range items {
		out = append(out, orderItemPayload{
			Name:         it.Name,
			SKU:          it.SKU,
			Units:        it.Units,
			SellingPrice: it.SellingPrice.Round(0).IntPart(),
			Tax:          it.Tax.IntPart(),
		})
	}
	return out
}

// returnPayload collects from the customer (pickup_*) and delivers to the warehouse
// (shipping_*).
type returnPayload struct {
	OrderID   string `json:"order_id"`
	OrderDate string `json:"order_date"`
	ChannelID string `json:"channel_id"`

	PickupCustomerName string `json:"pickup_customer_name"`
	PickupLastName     string `json:"pickup_last_name,omitempty"`
	PickupAddress      string `json:"pickup_address"`
	PickupAddress2     string `json:"pickup_address_2,omitempty"`
	PickupCity         string `json:"pickup_city"`
	PickupState        string `json:"pickup_state"`
	PickupCountry      string `json:"pickup_country"`
	PickupPincode      string `json:"pickup_pincode"`
	PickupEmail        string `json:"pickup_email"`
	PickupPhone        string `json:"pickup_phone"`

	ShippingCustomerName string `json:"shipping_customer_name"`
	ShippingAddress      string `json:"shipping_address"`
	ShippingCity         string `json:"shipping_city"`
	ShippingState        string `json:"shipping_state"`
	ShippingCountry      string `json:"shipping_country"`
	ShippingPincode      string `json:"shipping_pincode"`
	ShippingPhone        string `json:"shipping_phone"`

	OrderItems    []orderItemPayload `json:"order_items"`
	PaymentMethod string             `json:"payment_method"`
	SubTotal      int64              `json:"sub_total"`
	Length        float64            `json:"length"`
	Breadth       float64            `json:"breadth"`
	Height        float64            `json:"height"`
	Weight        float64            `json:"weight"`
}

func toReturnPayload(r ports.ReturnOrderRequest) returnPayload {
	c := r.Customer
	w := r.Warehouse
	return returnPayload{
		OrderID:   r.OrderID,
		OrderDate: r.OrderDate.Format(orderDateLayout),

		PickupCustomerName: c.FirstName(),
		PickupLastName:     c.LastName(),
		PickupAddress:      c.Line1,
		PickupAddress2:     c.Line2,
		PickupCity:         c.City,
		PickupState:        c.State,
		PickupCountry:      countryOrIndia(c),
		PickupPincode:      c.PostalCode,
		PickupEmail:        c.Email,
		PickupPhone:        c.Phone,

		ShippingCustomerName: w.Nickname,
		ShippingAddress:      w.Address,
		ShippingCity:         w.City,
		ShippingState:        w.State,
		ShippingCountry:      "India",
		ShippingPincode:      w.PostalCode,
		ShippingPhone:        w.Phone,

		OrderItems:    toItemPayloads(r.Items),
		PaymentMethod: r.PaymentMode,
		SubTotal:      r.SubTotal.Round(0).IntPart(),
		Length:        r.Parcel.Dimensions.Length(),
		Breadth:       r.Parcel.Dimensions.Breadth(),
		Height:        r.Parcel.Dimensions.Height(),
		Weight:        r.Parcel.Weight.Float64(),
	}
}

func countryOrIndia(a order.Address) string {
	if strings.TrimSpace(a.Country) == "" {
		return "India"
	}
	return a.Country
}

// createOrderResponse is shared by forward and return orders.
type createOrderResponse struct {
	OrderID          flexInt    `json:"order_id"`
	ShipmentID       flexInt    `json:"shipment_id"`
	Status           string     `json:"status"`
	StatusCode       int        `json:"status_code"`
	Message          string     `json:"message"`
	AWBCode          flexString `json:"awb_code"`
	CourierCompanyID flexInt    `json:"courier_company_id"`
	CourierName      string     `json:"courier_name"`
}

type awbRequest struct {
	ShipmentID string `json:"shipment_id"`
	CourierID  string `json:"courier_id,omitempty"`
	IsReturn   int    `json:"is_return,omitempty"`
}

type awbResponse struct {
	AWBAssignStatus int    `json:"awb_assign_status"`
	Message         string `json:"message"`
	Response        struct {
		Data struct {
			AWBCode          flexString `json:"awb_code"`
			CourierCompanyID flexInt    `json:"courier_company_id"`
			CourierName      string     `json:"courier_name"`
		} `json:"data"`
	} `json:"response"`
}

type shipmentIDsRequest struct {
	ShipmentID []int64 `json:"shipment_id"`
}

type shipmentIDStringsRequest struct {
	ShipmentID []string `json:"shipment_id"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

type cancelRequest struct {
	IDs []int64 `json:"ids"`
}

type pickupResponse struct {
	PickupStatus int `json:"pickup_status"`
}

type manifestResponse struct {
	ManifestURL string `json:"manifest_url"`
}

type labelResponse struct {
	LabelCreated int    `json:"label_created"`
	LabelURL     string `json:"label_url"`
}

type invoiceResponse struct {
	IsInvoiceCreated bool   `json:"is_invoice_created"`
	InvoiceURL       string `json:"invoice_url"`
}

type trackingResponse struct {
	TrackingData *struct {
		Error         string `json:"error"`
		ShipmentTrack []struct {
			CurrentStatus string `json:"current_status"`
			DeliveredDate string `json:"delivered_date"`
		} `json:"shipment_track"`
	} `json:"tracking_data"`
}

type orderDetailsResponse struct {
	Data *struct {
		ID flexInt `json:"id"`
	} `json:"data"`
}

type walletResponse struct {
	Data *struct {
		BalanceAmount flexString `json:"balance_amount"`
	} `json:"data"`
}
