package controllers

import (
	"context"
	"strings"

	"ledger/src/services"

	"github.com/shopspring/decimal"
)

type Controller struct {
	Ledger *services.Ledger
}

func NewController(ledger *services.Ledger) *Controller {
	return &Controller{Ledger: ledger}
}

// Tick advances every price by one random-walk step.
func (c *Controller) Tick(ctx context.Context) (map[string]decimal.Decimal, error) {
	prices, err := c.Ledger.Market.Tick(ctx)
	return prices, services.AsHTTPError(err)
}

// SetPrice overrides the price of one asset.
func (c *Controller) SetPrice(ctx context.Context, asset string, price decimal.Decimal) (map[string]decimal.Decimal, error) {
	if err := c.Ledger.Prices.SetPrice(ctx, asset, price); err != nil {
		return nil, services.AsHTTPError(err)
	}
	asset = strings.ToUpper(asset)
	current, err := c.Ledger.Prices.GetPrice(ctx, asset)
	if err != nil {
		return nil, services.AsHTTPError(err)
	}
	return map[string]decimal.Decimal{asset: current}, nil
}
