package services

import (
	"context"
	"errors"
	"time"

	"ledger/src/utils"
	redis_utils "ledger/src/utils/redis"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceCache is the read-through cache in front of the prices table.
type PriceCache interface {
	Get(ctx context.Context, asset string) (decimal.Decimal, bool)
	Set(ctx context.Context, asset string, price decimal.Decimal)
	Invalidate(ctx context.Context, asset string)
}

type memoryPriceCache struct {
	entries *utils.CacheMap[string, decimal.Decimal]
}

// NewMemoryPriceCache keeps prices in process for ttl. Other processes
// writing prices are picked up once the entry expires.
func NewMemoryPriceCache(ttl time.Duration) PriceCache {
	return &memoryPriceCache{entries: utils.NewCacheMap[string, decimal.Decimal](ttl)}
}

func (c *memoryPriceCache) Get(_ context.Context, asset string) (decimal.Decimal, bool) {
	return c.entries.Get(asset)
}

func (c *memoryPriceCache) Set(_ context.Context, asset string, price decimal.Decimal) {
	c.entries.Set(asset, price)
}

func (c *memoryPriceCache) Invalidate(_ context.Context, asset string) {
	c.entries.Clear(asset)
}

type redisPriceCache struct {
	handler *redis_utils.RedisHandler
	ttl     time.Duration
}

// NewRedisPriceCache shares cached prices between the API and the worker so
// an invalidation is seen by every process at once.
func NewRedisPriceCache(handler *redis_utils.RedisHandler, ttl time.Duration) PriceCache {
	return &redisPriceCache{handler: handler, ttl: ttl}
}

func (c *redisPriceCache) Get(ctx context.Context, asset string) (decimal.Decimal, bool) {
	var price decimal.Decimal
	err := c.handler.Get(ctx, asset, &price)
	if err != nil {
		if !errors.Is(err, redis_utils.ErrKeyNotFound) {
			utils.LoggerFromContext(ctx).WithError(err).WithField("asset", asset).Warn("price cache read failed")
		}
		return decimal.Zero, false
	}
	return price, true
}

func (c *redisPriceCache) Set(ctx context.Context, asset string, price decimal.Decimal) {
	if err := c.handler.Set(ctx, asset, price, c.ttl); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).WithField("asset", asset).Warn("price cache write failed")
	}
}

func (c *redisPriceCache) Invalidate(ctx context.Context, asset string) {
	if err := c.handler.Delete(ctx, asset); err != nil {
		utils.LoggerFromContext(ctx).WithFields(logrus.Fields{"asset": asset, "error": err}).Error("price cache invalidation failed")
	}
}
