package services

import (
	"context"
	"log/slog"
	"slices"

	"fulfillment/internal/core/domain/model/courier"
)

// RateSource quotes courier options for a route. The carrier client implements it.
type RateSource interface {
	AvailableShippingOptions(ctx context.Context, query courier.RateQuery) ([]courier.Option, error)
}

// RateSelector picks the cheapest courier for a route and weight.
//
// Business rules:
//   - The weight sent to the carrier is never below kernel.MinimumChargeableWeight
//   - No quotes is a valid outcome: callers get (nil, false)
//   - A failing carrier is treated as "no quotes" so that one pickup location's
//     outage never aborts estimation for the others
//
// SelectCheapest never returns an error.
type RateSelector struct {
	source RateSource
	logger *slog.Logger
}

func NewRateSelector(source RateSource, logger *slog.Logger) RateSelector {
	return RateSelector{source: source, logger: logger.With("component", "RateSelector")}
}

// Options returns every quote sorted by rate, cheapest first. Equal rates keep the
// carrier's order.
func (s RateSelector) Options(ctx context.Context, query courier.RateQuery) []courier.Option {
	query.Weight = query.Weight.Chargeable()

	options, err := s.source.AvailableShippingOptions(ctx, query)
	if err != nil {
		s.logger.DebugContext(ctx, "courier quote failed, treating as no options",
			"pickup_postcode", query.PickupPostcode,
			"delivery_postcode", query.DeliveryPostcode,
			"weight", query.Weight.String(),
			"error", err)
		return nil
	}

	sorted := slices.Clone(options)
	slices.SortStableFunc(sorted, func(a, b courier.Option) int {
		return a.Rate.Cmp(b.Rate)
	})
	return sorted
}

// SelectCheapest returns the lowest-rate option, or false when none is available.
func (s RateSelector) SelectCheapest(ctx context.Context, query courier.RateQuery) (*courier.Option, bool) {
	return courier.Cheapest(s.Options(ctx, query))
}
