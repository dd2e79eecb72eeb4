// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the stock ledgers, the carrier, the payment gateway
// and the audit log.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/returns"
	"fulfillment/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates,
// including their product and package lines.
type ShipmentRepository interface {
	// Add persists a new shipment and assigns its id.
	Add(ctx context.Context, s *shipment.Shipment) error

	// Update persists status, carrier identifiers and carrier payloads.
	// Lines are immutable once the shipment exists.
	Update(ctx context.Context, s *shipment.Shipment) error

	// Get retrieves a shipment with its lines.
	// Returns *errs.ObjectNotFoundError when no shipment exists.
	Get(ctx context.Context, id int64) (*shipment.Shipment, error)

	// ListByOrderSummary returns every shipment created for an order summary, ordered by id.
	ListByOrderSummary(ctx context.Context, orderSummaryID int64) ([]*shipment.Shipment, error)

	// ListInFlight returns up to limit shipments that have a waybill and are not yet in
	// a terminal status, oldest first. Used by the tracking refresh job.
	ListInFlight(ctx context.Context, limit int) ([]*shipment.Shipment, error)
}

// ReturnShipmentRepository defines the persistence contract for return shipments.
type ReturnShipmentRepository interface {
	Add(ctx context.Context, r *returns.ReturnShipment) error
	Update(ctx context.Context, r *returns.ReturnShipment) error

	// Get returns *errs.ObjectNotFoundError when no return shipment exists.
	Get(ctx context.Context, id int64) (*returns.ReturnShipment, error)

	// ReturnedQuantities sums returned units per product over every return of the
	// shipment that is not cancelled.
	ReturnedQuantities(ctx context.Context, shipmentID int64) (map[int64]int, error)
}
