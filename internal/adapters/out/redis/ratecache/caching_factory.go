package ratecache

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/ports"
)

// CachingFactory decorates a carrier client factory so that AvailableShippingOptions
// reads through a RateCache. Every other call goes straight to the carrier.
//
// Cache failures are logged and never fail the quote. Empty answers are not cached.
type CachingFactory struct {
	next   ports.CarrierClientFactory
	cache  ports.RateCache
	logger *slog.Logger
}

var _ ports.CarrierClientFactory = (*CachingFactory)(nil)

func NewCachingFactory(next ports.CarrierClientFactory, cache ports.RateCache, logger *slog.Logger) *CachingFactory {
	return &CachingFactory{
		next:   next,
		cache:  cache,
		logger: logger.With("component", "CachingCarrierFactory"),
	}
}

func (f *CachingFactory) ForClient(credentials ports.CarrierCredentials) ports.CarrierClient {
	return &cachingClient{
		CarrierClient: f.next.ForClient(credentials),
		cache:         f.cache,
		logger:        f.logger,
	}
}

type cachingClient struct {
	ports.CarrierClient
	cache  ports.RateCache
	logger *slog.Logger
}

func (c *cachingClient) AvailableShippingOptions(ctx context.Context, query courier.RateQuery) ([]courier.Option, error) {
	cached, ok, err := c.cache.Get(ctx, query)
	switch {
	case err != nil:
		c.logger.WarnContext(ctx, "rate cache read failed", "error", err)
	case ok:
		return cached, nil
	}

	options, err := c.CarrierClient.AvailableShippingOptions(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(options) > 0 {
		if err := c.cache.Set(ctx, query, options); err != nil {
			c.logger.WarnContext(ctx, "rate cache write failed", "error", err)
		}
	}
	return options, nil
}
