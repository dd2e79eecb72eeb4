package returns

import (
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/pkg/errs"
)

// CheckWindow applies the product's return policy.
//
// A product with a missing or zero window is never returnable. With a positive window,
// the deadline is the delivery time plus the window; a shipment without a recorded
// delivery time has no deadline yet.
func CheckWindow(product catalog.Product, deliveredAt *time.Time, now time.Time) error {
	if !product.IsReturnable() {
		return errs.NewBadRequest("Product '%s' is not returnable (return window is 0).", product.Title())
	}
	if deliveredAt == nil {
		return nil
	}

	days := *product.ReturnWindowDays()
	deadline := deliveredAt.AddDate(0, 0, days)
	if now.After(deadline) {
		return errs.NewBadRequest("Product '%s' is past its return window of %d days.", product.Title(), days)
	}
	return nil
}

// CheckQuantity rejects a return that, together with units already covered by earlier
// non-cancelled returns, goes past the allocated quantity of the line. The error names
// the total returned quantity and the allocated quantity.
func CheckQuantity(productID int64, requested, allocated, alreadyReturned int) error {
	total := requested + alreadyReturned
	if total > allocated {
		return errs.NewBadRequest("Return quantity (%d) exceeds shipment quantity (%d) for product %d.",
			total, allocated, productID)
	}
	return nil
}

// TypeFor is FullReturn when the returned units cover every allocated unit.
func TypeFor(returnedUnits, allocatedUnits int) Type {
	if returnedUnits >= allocatedUnits {
		return FullReturn
	}
	return PartialReturn
}
