package carrierflow

import (
	"strconv"
	"strings"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CarrierOrder is a validated create-order response.
type CarrierOrder struct {
	OrderID    string
	ShipmentID string
	Status     shipment.Status
}

// ValidateOrderResponse checks a create-order response. The carrier answers 200 for
// rejected orders too, so the body decides. Checks run in a fixed order and the first
// failure is reported, naming the shipment.
func ValidateOrderResponse(shipmentID int64, resp *ports.CarrierOrderResponse) (CarrierOrder, error) {
	if resp == nil {
		return CarrierOrder{}, errs.NewBadRequest("ShipRocket API returned null response for shipment ID: %d", shipmentID)
	}

	fail := func(reason string) (CarrierOrder, error) {
		return CarrierOrder{}, errs.NewBadRequest("Failed to create ShipRocket order for shipment ID: %d. Error: %s", shipmentID, reason)
	}

	if strings.TrimSpace(resp.Message) != "" {
		return fail(resp.Message)
	}
	if resp.OrderID == 0 {
		return fail("order_id is missing from response")
	}
	if resp.ShipmentID == 0 {
		return fail("shipment_id is missing from response")
	}
	if strings.TrimSpace(resp.Status) == "" {
		return fail("status is missing from response")
	}

	status, err := shipment.ParseCarrierStatus(resp.Status)
	if err != nil {
		return fail(err.Error())
	}

	return CarrierOrder{
		OrderID:    strconv.FormatInt(resp.OrderID, 10),
		ShipmentID: strconv.FormatInt(resp.ShipmentID, 10),
		Status:     status,
	}, nil
}
