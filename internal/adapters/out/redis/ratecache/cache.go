// Package ratecache keeps courier quotes in Redis so repeated estimates for the same
// route and chargeable weight skip the carrier.
package ratecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

const (
	keyNamespace = "fulfillment"
	ratesPrefix  = "rates"

	DefaultTTL = 15 * time.Minute
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache implements ports.RateCache.
type Cache struct {
	store  cmdable
	raw    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.RateCache = (*Cache)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Cache, error) {
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, errors.New("redis address is required")
	}
	raw := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	c := newCache(raw, cfg.TTL, logger)
	c.raw = raw
	return c, nil
}

func newCache(store cmdable, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "RateCache"),
	}
}

type cachedOption struct {
	CourierCompanyID      int64   `json:"courier_company_id"`
	CourierName           string  `json:"courier_name"`
	Rate                  string  `json:"rate"`
	EstimatedDeliveryDays string  `json:"estimated_delivery_days,omitempty"`
	ETD                   string  `json:"etd,omitempty"`
	Rating                float64 `json:"rating,omitempty"`
	MinWeight             string  `json:"min_weight"`
	COD                   bool    `json:"cod"`
}

func (c *Cache) Get(ctx context.Context, query courier.RateQuery) ([]courier.Option, bool, error) {
	raw, err := c.store.Get(ctx, key(query)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached rates: %w", err)
	}

	var cached []cachedOption
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false, fmt.Errorf("decode cached rates: %w", err)
	}

	options := make([]courier.Option, 0, len(cached))
	for _, o := range cached {
		rate, err := decimal.NewFromString(o.Rate)
		if err != nil {
			return nil, false, fmt.Errorf("decode cached rate: %w", err)
		}
		minWeight, err := decimal.NewFromString(o.MinWeight)
		if err != nil {
			return nil, false, fmt.Errorf("decode cached min weight: %w", err)
		}
		weight, err := kernel.NewWeight(minWeight)
		if err != nil {
			return nil, false, err
		}
		options = append(options, courier.Option{
			CourierCompanyID:      o.CourierCompanyID,
			CourierName:           o.CourierName,
			Rate:                  rate,
			EstimatedDeliveryDays: o.EstimatedDeliveryDays,
			ETD:                   o.ETD,
			Rating:                o.Rating,
			MinWeight:             weight,
			COD:                   o.COD,
		})
	}
	return options, true, nil
}

func (c *Cache) Set(ctx context.Context, query courier.RateQuery, options []courier.Option) error {
	cached := make([]cachedOption, 0, len(options))
	for _, o := range options {
		cached = append(cached, cachedOption{
			CourierCompanyID:      o.CourierCompanyID,
			CourierName:           o.CourierName,
			Rate:                  o.Rate.String(),
			EstimatedDeliveryDays: o.EstimatedDeliveryDays,
			ETD:                   o.ETD,
			Rating:                o.Rating,
			MinWeight:             o.MinWeight.String(),
			COD:                   o.COD,
		})
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}
	if err := c.store.Set(ctx, key(query), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached rates: %w", err)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if the cache owns one.
func (c *Cache) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// key is fulfillment:rates:<pickup>:<delivery>:<cod>:<chargeable kg>.
func key(q courier.RateQuery) string {
	cod := "prepaid"
	if q.COD {
		cod = "cod"
	}
	return strings.Join([]string{
		keyNamespace,
		ratesPrefix,
		q.PickupPostcode,
		q.DeliveryPostcode,
		cod,
		q.Weight.Chargeable().Kilograms().String(),
	}, ":")
}
