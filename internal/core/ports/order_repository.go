package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// PurchaseOrderRepository defines the persistence contract for purchase orders and
// the order summaries the checkout captured for them.
type PurchaseOrderRepository interface {
	// Get retrieves a purchase order by id.
	// Returns *errs.ObjectNotFoundError when no order exists.
	Get(ctx context.Context, id int64) (*order.PurchaseOrder, error)

	// Update persists the order status and receipt.
	Update(ctx context.Context, po *order.PurchaseOrder) error

	// Summary retrieves an order summary with its delivery address.
	// Returns *errs.ObjectNotFoundError when no summary exists.
	Summary(ctx context.Context, summaryID int64) (*order.Summary, error)
}
