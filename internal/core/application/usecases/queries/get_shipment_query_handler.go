package queries

import (
	"context"

	"gorm.io/gorm"

	"fulfillment/internal/pkg/errs"
)

// GetShipmentQueryHandler reads shipments with direct SQL. Shipments of other clients
// are reported as missing.
type GetShipmentQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (*GetShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.order_summary_id,
			s.pickup_location_id,
			COALESCE(pl.nickname, ''),
			s.status,
			s.carrier_order_id,
			s.carrier_shipment_id,
			s.awb_code,
			s.courier_name,
			s.label_url,
			s.manifest_url,
			s.invoice_url,
			s.total_weight_kg,
			s.packaging_cost,
			s.shipping_cost,
			s.delivered_at
		FROM shipments s
		LEFT JOIN pickup_locations pl ON pl.id = s.pickup_location_id
		WHERE s.id = ? AND s.client_id = ?
	`, query.ShipmentID(), query.ClientID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewNotFound("Shipment not found with ID: %d", query.ShipmentID())
	}

	var response GetShipmentQueryResponse
	err = rows.Scan(
		&response.ID,
		&response.OrderSummaryID,
		&response.PickupLocationID,
		&response.LocationName,
		&response.Status,
		&response.CarrierOrderID,
		&response.CarrierShipmentID,
		&response.AWBCode,
		&response.CourierName,
		&response.LabelURL,
		&response.ManifestURL,
		&response.InvoiceURL,
		&response.TotalWeight,
		&response.PackagingCost,
		&response.ShippingCost,
		&response.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	response.Products = make([]ShipmentProductView, 0)
	err = h.db.WithContext(ctx).Raw(`
		SELECT
			sp.product_id,
			COALESCE(p.title, '') AS title,
			sp.quantity,
			sp.allocated_price
		FROM shipment_products sp
		LEFT JOIN products p ON p.id = sp.product_id
		WHERE sp.shipment_id = ?
		ORDER BY sp.id
	`, response.ID).Scan(&response.Products).Error
	if err != nil {
		return nil, err
	}

	return &response, nil
}
