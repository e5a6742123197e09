package controllers

import (
	"context"

	"ledger/src/schemas"
)

type LedgerControllerI interface {
	Invest(ctx context.Context, accountID string, req *schemas.InvestmentRequest) (*schemas.InvestmentResult, error)
	Cashout(ctx context.Context, accountID string) (*schemas.CashoutResult, error)
	Wager(ctx context.Context, accountID string, req *schemas.WagerRequest) (*schemas.WagerResult, error)
}

func (c *Controller) Invest(ctx context.Context, accountID string, req *schemas.InvestmentRequest) (*schemas.InvestmentResult, error) {
	result, err := c.Ledger.Investments.Invest(ctx, accountID, req.Asset, req.Shares, req.Currency)
	return result, translateError(err)
}

func (c *Controller) Cashout(ctx context.Context, accountID string) (*schemas.CashoutResult, error) {
	result, err := c.Ledger.Cashouts.Cashout(ctx, accountID)
	return result, translateError(err)
}

func (c *Controller) Wager(ctx context.Context, accountID string, req *schemas.WagerRequest) (*schemas.WagerResult, error) {
	result, err := c.Ledger.Wagers.Wager(ctx, accountID, req.Currency, req.Stake)
	return result, translateError(err)
}
