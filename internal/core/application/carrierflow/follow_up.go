package carrierflow

import (
	"context"
	"log/slog"
	"strings"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
)

// RunFollowUps enriches a shipment whose carrier order was just created: waybill,
// pickup, manifest, label, invoice, tracking and the full order details. Each step is
// best effort and a failed step never stops the ones after it.
func RunFollowUps(
	ctx context.Context,
	client ports.CarrierClient,
	logger *slog.Logger,
	s *shipment.Shipment,
	created *ports.CarrierOrderResponse,
) {
	carrierShipmentID := created.ShipmentID

	awb, ok := BestEffort(ctx, logger, func(ctx context.Context) (*ports.AWBResponse, error) {
		return client.AssignAWB(ctx, carrierShipmentID, s.CourierID())
	}, "Failed to assign AWB code for ShipRocket shipment ID: %d. Error: %s", carrierShipmentID)
	if ok && awb != nil {
		s.AttachAWBDetails(awb.Raw)
	}
	if ok && awb != nil && awb.AWBCode != "" {
		s.AssignAWB(awb.AWBCode, awb.CourierName)
	} else {
		s.AssignAWB(created.AWBCode, created.CourierName)
	}

	if pickup, ok := BestEffort(ctx, logger, func(ctx context.Context) (string, error) {
		return client.GeneratePickup(ctx, carrierShipmentID)
	}, "Failed to generate pickup for ShipRocket shipment ID: %d. Error: %s", carrierShipmentID); ok {
		s.AttachPickup(pickup)
	}

	if url, ok := BestEffort(ctx, logger, func(ctx context.Context) (string, error) {
		return client.GenerateManifest(ctx, carrierShipmentID)
	}, "Failed to generate manifest for ShipRocket shipment ID: %d. Error: %s", carrierShipmentID); ok {
		s.AttachManifest(url)
	}

	if url, ok := BestEffort(ctx, logger, func(ctx context.Context) (string, error) {
		return client.GenerateLabel(ctx, carrierShipmentID)
	}, "Failed to generate shipping label for ShipRocket shipment ID: %d. Error: %s", carrierShipmentID); ok {
		s.AttachLabel(url)
	}

	if url, ok := BestEffort(ctx, logger, func(ctx context.Context) (string, error) {
		return client.GenerateInvoice(ctx, created.OrderID)
	}, "Failed to generate invoice for ShipRocket shipment ID: %d. Error: %s", carrierShipmentID); ok {
		s.AttachInvoice(url)
	}

	if code := strings.TrimSpace(s.AWBCode()); code != "" {
		if info, ok := BestEffort(ctx, logger, func(ctx context.Context) (*ports.TrackingInfo, error) {
			return client.Tracking(ctx, code)
		}, "Failed to fetch tracking information for AWB code: %s. Error: %s", code); ok && info != nil {
			s.AttachTracking(info.Raw)
		}
	}

	details, ok := BestEffort(ctx, logger, func(ctx context.Context) (string, error) {
		return client.OrderDetails(ctx, created.OrderID)
	}, "Failed to fetch ShipRocket order details for order ID: %d. Error: %s", created.OrderID)
	if !ok {
		details = created.Raw
	}
	s.AttachOrderDetails(details)
}
