// Package courier models the courier quotes a carrier returns for a route and weight,
// and the rule for picking one of them.
//
// The package includes:
//   - RateQuery: the route, payment mode and chargeable weight of a quote request
//   - Option: one courier company's quote
//   - Cheapest: the selection rule (lowest rate, first occurrence on ties)
//
// Key business rules:
//   - Weights below kernel.MinimumChargeableWeight are raised to it before quoting
//   - An empty quote list is a valid outcome, not an error
package courier
