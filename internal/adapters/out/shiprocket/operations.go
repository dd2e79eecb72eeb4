package shiprocket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

const trackingDateLayout = "2006-01-02 15:04:05"

var _ ports.CarrierClient = (*Client)(nil)

func (c *Client) AvailableShippingOptions(ctx context.Context, query courier.RateQuery) ([]courier.Option, error) {
	params := url.Values{}
	params.Set("pickup_postcode", query.PickupPostcode)
	params.Set("delivery_postcode", query.DeliveryPostcode)
	params.Set("weight", query.Weight.String())
	params.Set("cod", "0")
	if query.COD {
		params.Set("cod", "1")
	}

	raw, err := c.call(ctx, http.MethodGet, "/courier/serviceability/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := decode[serviceabilityResponse](raw, "serviceability")
	if err != nil {
		return nil, err
	}

	options := make([]courier.Option, 0, len(resp.Data.AvailableCourierCompanies))
	for _, company := range resp.Data.AvailableCourierCompanies {
		minWeight, err := kernel.NewWeight(company.MinWeight)
		if err != nil {
			minWeight = kernel.ZeroWeight
		}
		options = append(options, courier.Option{
			CourierCompanyID:      int64(company.CourierCompanyID),
			CourierName:           company.CourierName,
			Rate:                  company.Rate,
			EstimatedDeliveryDays: string(company.EstimatedDeliveryDays),
			ETD:                   company.ETD,
			Rating:                company.Rating,
			MinWeight:             minWeight,
			COD:                   company.COD == 1,
		})
	}
	return options, nil
}

func (c *Client) CreateOrder(ctx context.Context, request ports.CarrierOrderRequest) (*ports.CarrierOrderResponse, error) {
	raw, err := c.call(ctx, http.MethodPost, "/orders/create/adhoc", toOrderPayload(request))
	if err != nil {
		return nil, err
	}
	return orderResponse(raw)
}

func (c *Client) CreateReturnOrder(ctx context.Context, request ports.ReturnOrderRequest) (*ports.CarrierOrderResponse, error) {
	raw, err := c.call(ctx, http.MethodPost, "/orders/create/return", toReturnPayload(request))
	if err != nil {
		return nil, err
	}
	return orderResponse(raw)
}

// orderResponse maps the create-order body. The carrier's message is passed through
// untouched; the caller decides whether it means the order was refused.
func orderResponse(raw []byte) (*ports.CarrierOrderResponse, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	resp, err := decode[createOrderResponse](raw, "create order")
	if err != nil {
		return nil, err
	}

	out := &ports.CarrierOrderResponse{
		OrderID:          int64(resp.OrderID),
		ShipmentID:       int64(resp.ShipmentID),
		Status:           resp.Status,
		AWBCode:          string(resp.AWBCode),
		CourierCompanyID: int64(resp.CourierCompanyID),
		CourierName:      resp.CourierName,
		Message:          resp.Message,
		Raw:              string(raw),
	}
	return out, nil
}

func (c *Client) AssignAWB(ctx context.Context, carrierShipmentID, courierCompanyID int64) (*ports.AWBResponse, error) {
	return c.assignAWB(ctx, awbRequest{
		ShipmentID: strconv.FormatInt(carrierShipmentID, 10),
		CourierID:  strconv.FormatInt(courierCompanyID, 10),
	})
}

func (c *Client) AssignReturnAWB(ctx context.Context, carrierShipmentID int64) (*ports.AWBResponse, error) {
	return c.assignAWB(ctx, awbRequest{
		ShipmentID: strconv.FormatInt(carrierShipmentID, 10),
		IsReturn:   1,
	})
}

func (c *Client) assignAWB(ctx context.Context, request awbRequest) (*ports.AWBResponse, error) {
	raw, err := c.call(ctx, http.MethodPost, "/courier/assign/awb", request)
	if err != nil {
		return nil, err
	}
	resp, err := decode[awbResponse](raw, "AWB assignment")
	if err != nil {
		return nil, err
	}
	if resp.AWBAssignStatus != 1 {
		return nil, fmt.Errorf("AWB assignment failed for shipment %s: %s", request.ShipmentID, resp.Message)
	}

	data := resp.Response.Data
	return &ports.AWBResponse{
		AWBCode:          string(data.AWBCode),
		CourierCompanyID: int64(data.CourierCompanyID),
		CourierName:      data.CourierName,
		Raw:              string(raw),
	}, nil
}

// GeneratePickup returns the raw pickup response.
func (c *Client) GeneratePickup(ctx context.Context, carrierShipmentID int64) (string, error) {
	raw, err := c.call(ctx, http.MethodPost, "/courier/generate/pickup", shipmentIDsRequest{
		ShipmentID: []int64{carrierShipmentID},
	})
	if err != nil {
		return "", err
	}
	resp, err := decode[pickupResponse](raw, "pickup")
	if err != nil {
		return "", err
	}
	if resp.PickupStatus != 1 {
		return "", fmt.Errorf("pickup was not scheduled for shipment %d: %s", carrierShipmentID, raw)
	}
	return string(raw), nil
}

func (c *Client) GenerateManifest(ctx context.Context, carrierShipmentID int64) (string, error) {
	raw, err := c.call(ctx, http.MethodPost, "/manifests/generate", shipmentIDsRequest{
		ShipmentID: []int64{carrierShipmentID},
	})
	if err != nil {
		return "", err
	}
	resp, err := decode[manifestResponse](raw, "manifest")
	if err != nil {
		return "", err
	}
	if resp.ManifestURL == "" {
		return "", fmt.Errorf("manifest URL missing for shipment %d", carrierShipmentID)
	}
	return resp.ManifestURL, nil
}

func (c *Client) GenerateLabel(ctx context.Context, carrierShipmentID int64) (string, error) {
	raw, err := c.call(ctx, http.MethodPost, "/courier/generate/label", shipmentIDStringsRequest{
		ShipmentID: []string{strconv.FormatInt(carrierShipmentID, 10)},
	})
	if err != nil {
		return "", err
	}
	resp, err := decode[labelResponse](raw, "label")
	if err != nil {
		return "", err
	}
	if resp.LabelCreated != 1 || resp.LabelURL == "" {
		return "", fmt.Errorf("label was not created for shipment %d", carrierShipmentID)
	}
	return resp.LabelURL, nil
}

func (c *Client) GenerateInvoice(ctx context.Context, carrierOrderID int64) (string, error) {
	raw, err := c.call(ctx, http.MethodPost, "/orders/print/invoice", idsRequest{
		IDs: []string{strconv.FormatInt(carrierOrderID, 10)},
	})
	if err != nil {
		return "", err
	}
	resp, err := decode[invoiceResponse](raw, "invoice")
	if err != nil {
		return "", err
	}
	if !resp.IsInvoiceCreated || resp.InvoiceURL == "" {
		return "", fmt.Errorf("invoice was not created for order %d", carrierOrderID)
	}
	return resp.InvoiceURL, nil
}

// Tracking reports the newest scan of a waybill. DeliveredAt is set only when the
// carrier sent a parsable delivery date.
func (c *Client) Tracking(ctx context.Context, awbCode string) (*ports.TrackingInfo, error) {
	raw, err := c.call(ctx, http.MethodGet, "/courier/track/awb/"+url.PathEscape(awbCode), nil)
	if err != nil {
		return nil, err
	}
	resp, err := decode[trackingResponse](raw, "tracking")
	if err != nil {
		return nil, err
	}
	if resp.TrackingData == nil {
		return nil, fmt.Errorf("ShipRocket tracking returned no tracking_data for AWB: %s", awbCode)
	}
	if resp.TrackingData.Error != "" {
		return nil, fmt.Errorf("ShipRocket tracking failed for AWB %s: %s", awbCode, resp.TrackingData.Error)
	}

	info := &ports.TrackingInfo{Raw: string(raw)}
	if len(resp.TrackingData.ShipmentTrack) > 0 {
		track := resp.TrackingData.ShipmentTrack[0]
		info.Status = track.CurrentStatus
		if delivered, err := time.Parse(trackingDateLayout, track.DeliveredDate); err == nil {
			info.DeliveredAt = &delivered
		}
	}
	return info, nil
}

// OrderDetails returns the full order document as the carrier sent it.
func (c *Client) OrderDetails(ctx context.Context, carrierOrderID int64) (string, error) {
	raw, err := c.call(ctx, http.MethodGet, "/orders/show/"+strconv.FormatInt(carrierOrderID, 10), nil)
	if err != nil {
		return "", err
	}
	resp, err := decode[orderDetailsResponse](raw, "order details")
	if err != nil {
		return "", err
	}
	if resp.Data == nil || resp.Data.ID == 0 {
		return "", fmt.Errorf("order details missing for order %d", carrierOrderID)
	}
	return string(raw), nil
}

func (c *Client) CancelOrders(ctx context.Context, carrierOrderIDs []int64) error {
	if len(carrierOrderIDs) == 0 {
		return errors.New("no carrier order ids to cancel")
	}
	_, err := c.call(ctx, http.MethodPost, "/orders/cancel", cancelRequest{IDs: carrierOrderIDs})
	return err
}

func (c *Client) WalletBalance(ctx context.Context) (decimal.Decimal, error) {
	raw, err := c.call(ctx, http.MethodGet, "/account/details/wallet-balance", nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := decode[walletResponse](raw, "wallet balance")
	if err != nil {
		return decimal.Zero, err
	}
	if resp.Data == nil || strings.TrimSpace(string(resp.Data.BalanceAmount)) == "" {
		return decimal.Zero, errors.New("Invalid wallet balance response from ShipRocket: missing balance_amount")
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(string(resp.Data.BalanceAmount)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("Invalid wallet balance response from ShipRocket: %w", err)
	}
	return balance, nil
}
