// Package shipment contains the Shipment aggregate: one outbound parcel group of a
// purchase order, shipped from a single pickup location by one courier.
//
// A Shipment owns its product lines (allocated quantities and prices) and package lines
// (boxes used). Its Status follows the carrier vocabulary and only moves forward, with
// two exceptions: cancellation, which is reachable from any non-terminal status before
// delivery, and the return flow, which starts from Delivered.
//
// Carrier identifiers are set exactly once, by RecordCarrierOrder, after the carrier
// accepted the order.
package shipment
