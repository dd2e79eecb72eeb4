package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
)

// RateCache stores courier quotes per route and chargeable weight.
type RateCache interface {
	// Get reports a miss with ok false and a nil error.
	Get(ctx context.Context, query courier.RateQuery) (options []courier.Option, ok bool, err error)
	Set(ctx context.Context, query courier.RateQuery, options []courier.Option) error
}
