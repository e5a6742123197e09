package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledger/src/models"
	"ledger/src/repositories"

	"github.com/shopspring/decimal"
)

type PriceServiceI interface {
	GetPrice(ctx context.Context, asset string) (decimal.Decimal, error)
	Snapshot(ctx context.Context) (map[string]decimal.Decimal, error)
	SetPrice(ctx context.Context, asset string, price decimal.Decimal) error
	SeedPrices(ctx context.Context, defaults map[string]float64) (int, error)
}

type PriceService struct {
	priceRepo repositories.PriceRepository
	cache     PriceCache
	now       func() time.Time
}

func NewPriceService(priceRepo repositories.PriceRepository, cache PriceCache) *PriceService {
	if cache == nil {
		cache = NewMemoryPriceCache(0)
	}
	return &PriceService{priceRepo: priceRepo, cache: cache, now: time.Now}
}

// GetPrice returns the current EUR price of asset.
func (s *PriceService) GetPrice(ctx context.Context, asset string) (decimal.Decimal, error) {
	asset = strings.ToUpper(asset)
	if price, ok := s.cache.Get(ctx, asset); ok {
		return price, nil
	}

	row, err := s.priceRepo.GetByAsset(ctx, asset)
	if err != nil {
		return decimal.Zero, storageError(fmt.Errorf("get price %s: %w", asset, err))
	}
	if row == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}

	s.cache.Set(ctx, asset, row.PriceEUR)
	return row.PriceEUR, nil
}

// Snapshot reads every price straight from storage.
func (s *PriceService) Snapshot(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := s.priceRepo.GetAll(ctx)
	if err != nil {
		return nil, storageError(fmt.Errorf("price snapshot: %w", err))
	}
	prices := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		prices[row.Asset] = row.PriceEUR
		s.cache.Set(ctx, row.Asset, row.PriceEUR)
	}
	return prices, nil
}

// SetPrice stores a new price and drops the cached one.
func (s *PriceService) SetPrice(ctx context.Context, asset string, price decimal.Decimal) error {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if asset == "" {
		return fmt.Errorf("%w: asset is required", ErrInvalidInput)
	}
	price = Quantize(price)
	if !price.IsPositive() {
		return fmt.Errorf("%w: price of %s must be > 0", ErrInvalidAmount, asset)
	}

	err := s.priceRepo.Upsert(ctx, &models.Price{Asset: asset, PriceEUR: price, UpdatedAt: s.now().UTC()})
	if err != nil {
		return storageError(fmt.Errorf("set price %s: %w", asset, err))
	}
	s.cache.Invalidate(ctx, asset)
	return nil
}

// SeedPrices inserts the default price of every asset that has none yet and
// returns how many were written. Existing prices are left alone.
func (s *PriceService) SeedPrices(ctx context.Context, defaults map[string]float64) (int, error) {
	seeded := 0
	for asset, value := range defaults {
		price := Amount(value)
		if !price.IsPositive() {
			return seeded, fmt.Errorf("%w: default price of %s must be > 0", ErrInvalidAmount, asset)
		}
		created, err := s.priceRepo.CreateIfMissing(ctx, &models.Price{
			Asset:     strings.ToUpper(asset),
			PriceEUR:  price,
			UpdatedAt: s.now().UTC(),
		})
		if err != nil {
			return seeded, storageError(fmt.Errorf("seed price %s: %w", asset, err))
		}
		if created {
			seeded++
		}
	}
	return seeded, nil
}
