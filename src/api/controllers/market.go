package controllers

import (
	"context"

	"ledger/src/schemas"

	"github.com/shopspring/decimal"
)

func (c *Controller) GetPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	prices, err := c.Ledger.Prices.Snapshot(ctx)
	return prices, translateError(err)
}

func (c *Controller) GetRates() map[string]decimal.Decimal {
	return c.Ledger.Accounts.Rates()
}

func (c *Controller) GetAudit(ctx context.Context, limit int) ([]schemas.AuditEvent, error) {
	events, err := c.Ledger.Audit.Recent(ctx, limit)
	if err != nil {
		return nil, translateError(err)
	}
	response := make([]schemas.AuditEvent, len(events))
	for i, e := range events {
		response[i] = schemas.AuditEvent{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Level:     e.Level,
			AccountID: e.AccountID,
			Message:   e.Message,
		}
	}
	return response, nil
}
