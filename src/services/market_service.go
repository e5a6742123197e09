package services

import (
	"context"
	"math/rand"
	"time"

	"ledger/src/utils"

	"github.com/shopspring/decimal"
)

var minPrice = decimal.New(1, -2)

// MarketService moves asset prices with a bounded random walk.
type MarketService struct {
	prices  PriceServiceI
	audit   *AuditService
	metrics *utils.Metrics
	maxStep float64
	draw    func() float64
}

func NewMarketService(prices PriceServiceI, audit *AuditService, maxStep float64, metrics *utils.Metrics) *MarketService {
	return &MarketService{
		prices:  prices,
		audit:   audit,
		metrics: metrics,
		maxStep: maxStep,
		draw:    rand.Float64,
	}
}

// SetDraw replaces the source of uniform [0, 1) draws.
func (s *MarketService) SetDraw(draw func() float64) {
	s.draw = draw
}

// Tick multiplies every price by 1+u with u uniform in [-maxStep, maxStep],
// rounded to 4 decimals and floored at 0.01, and returns the new prices.
func (s *MarketService) Tick(ctx context.Context) (prices map[string]decimal.Decimal, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe("market_tick", started, err) }()

	current, err := s.prices.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	prices = make(map[string]decimal.Decimal, len(current))
	for _, asset := range sortedKeys(current) {
		next := Step(current[asset], s.maxStep*(2*s.draw()-1))
		if err := s.prices.SetPrice(ctx, asset, next); err != nil {
			return nil, err
		}
		prices[asset] = next
	}

	if err := s.audit.Info(ctx, nil, nil, "Market tick"); err != nil {
		return nil, err
	}
	utils.LoggerFromContext(ctx).WithField("assets", len(prices)).Debug("market tick applied")
	return prices, nil
}

// Step applies one relative move to price.
func Step(price decimal.Decimal, pct float64) decimal.Decimal {
	next := price.Mul(decimal.NewFromFloat(1 + pct)).Round(4)
	if next.LessThan(minPrice) {
		return minPrice
	}
	return next
}
