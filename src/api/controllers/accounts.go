package controllers

import (
	"context"

	"ledger/src/models"
	"ledger/src/schemas"

	"github.com/shopspring/decimal"
)

type AccountsControllerI interface {
	Register(ctx context.Context, name, password string) (*schemas.RegisterResponse, error)
	GetDashboard(ctx context.Context, accountID string) (*schemas.Dashboard, error)
	GetBalances(ctx context.Context, accountID string) (map[string]decimal.Decimal, error)
	GetPositions(ctx context.Context, accountID string) ([]schemas.PositionValue, error)
	GetStatement(ctx context.Context, accountID string) ([]byte, error)
}

// Register creates the account and logs it in.
func (c *Controller) Register(ctx context.Context, name, password string) (*schemas.RegisterResponse, error) {
	account, err := c.Ledger.Accounts.CreateAccount(ctx, name, password)
	if err != nil {
		return nil, translateError(err)
	}
	token, err := c.Tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &schemas.RegisterResponse{ID: account.ID, Name: account.Name, Token: token}, nil
}

func (c *Controller) GetDashboard(ctx context.Context, accountID string) (*schemas.Dashboard, error) {
	account, err := c.Ledger.Accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, translateError(err)
	}
	balances, err := c.Ledger.Accounts.GetBalances(ctx, accountID)
	if err != nil {
		return nil, translateError(err)
	}
	positions, total, err := c.Ledger.Investments.ValuePositions(ctx, accountID)
	if err != nil {
		return nil, translateError(err)
	}
	eligibility, err := c.Ledger.Cashouts.Eligibility(ctx, accountID)
	if err != nil {
		return nil, translateError(err)
	}
	prices, err := c.Ledger.Prices.Snapshot(ctx)
	if err != nil {
		return nil, translateError(err)
	}

	return &schemas.Dashboard{
		Account:   toAccountSchema(account),
		Balances:  balances,
		Positions: positions,
		Total:     total,
		Cashout:   *eligibility,
		Prices:    prices,
		Rates:     c.Ledger.Accounts.Rates(),
	}, nil
}

func (c *Controller) GetBalances(ctx context.Context, accountID string) (map[string]decimal.Decimal, error) {
	balances, err := c.Ledger.Accounts.GetBalances(ctx, accountID)
	return balances, translateError(err)
}

func (c *Controller) GetPositions(ctx context.Context, accountID string) ([]schemas.PositionValue, error) {
	positions, _, err := c.Ledger.Investments.ValuePositions(ctx, accountID)
	return positions, translateError(err)
}

func (c *Controller) GetStatement(ctx context.Context, accountID string) ([]byte, error) {
	data, err := c.Ledger.Statements.ExportStatement(ctx, accountID)
	return data, translateError(err)
}

func toAccountSchema(account *models.Account) schemas.Account {
	return schemas.Account{
		ID:              account.ID,
		Name:            account.Name,
		LastCashoutDate: account.LastCashoutDate,
		CreatedAt:       account.CreatedAt,
	}
}
