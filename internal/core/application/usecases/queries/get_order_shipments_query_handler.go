package queries

import (
	"context"

	"gorm.io/gorm"

	"fulfillment/internal/pkg/errs"
)

// GetOrderShipmentsQueryHandler lists an order's shipments with direct SQL.
type GetOrderShipmentsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderShipmentsQueryHandler(db *gorm.DB) GetOrderShipmentsQueryHandler {
	return GetOrderShipmentsQueryHandler{db: db}
}

// Handle returns the shipments ordered by id. An order of another client is NotFound;
// an order without shipments yields an empty slice.
func (h GetOrderShipmentsQueryHandler) Handle(ctx context.Context, query GetOrderShipmentsQuery) ([]OrderShipmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var owned int64
	if err := h.db.WithContext(ctx).
		Table("purchase_orders").
		Where("id = ? AND client_id = ?", query.PurchaseOrderID(), query.ClientID()).
		Count(&owned).Error; err != nil {
		return nil, err
	}
	if owned == 0 {
		return nil, errs.NewNotFound("Purchase order not found with ID: %d", query.PurchaseOrderID())
	}

	shipments := make([]OrderShipmentView, 0)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			COALESCE(pl.nickname, '') AS location_name,
			s.status,
			s.awb_code,
			s.courier_name,
			s.shipping_cost
		FROM purchase_orders po
		JOIN shipments s ON s.order_summary_id = po.order_summary_id
		LEFT JOIN pickup_locations pl ON pl.id = s.pickup_location_id
		WHERE po.id = ?
		ORDER BY s.id
	`, query.PurchaseOrderID()).Scan(&shipments).Error
	if err != nil {
		return nil, err
	}

	return shipments, nil
}
