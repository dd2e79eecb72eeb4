// Package order provides the purchase-order side of fulfillment: the PurchaseOrder
// aggregate that gates payment approval, and the order Summary holding the delivery
// address the shipments are sent to.
//
// The package includes:
//   - PurchaseOrder: owned by a client, approved exactly once from PendingApproval
//   - Status: the purchase order approval state machine
//   - Summary and Address: the delivery destination and totals of an order
//
// Key business rules:
//   - Only a PendingApproval purchase order can be paid
//   - A purchase order is visible only to the client that owns it
package order
