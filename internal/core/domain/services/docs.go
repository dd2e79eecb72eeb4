// Package services provides domain services that work across aggregates of the
// fulfillment system. They hold no state of their own and reach the outside world only
// through the narrow interfaces declared next to them.
//
// The package includes:
//   - RateSelector: picks the cheapest courier quote for a route and weight
//   - PackagingOptimizer: greedy packing of products into the boxes stocked at a location
//   - StockAllocationValidator: checks per-location stock ledgers against a shipment
//   - AllocationPlanner: spreads an order across pickup locations
package services
