package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/schemas"
	"ledger/src/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvestmentServiceI interface {
	Invest(ctx context.Context, accountID, asset string, shares decimal.Decimal, payCurrency string) (*schemas.InvestmentResult, error)
	GetPositions(ctx context.Context, accountID string) (map[string]decimal.Decimal, error)
	ValuePositions(ctx context.Context, accountID string) ([]schemas.PositionValue, decimal.Decimal, error)
}

type InvestmentService struct {
	accounts     *AccountService
	prices       PriceServiceI
	positionRepo repositories.PositionRepository
	audit        *AuditService
	metrics      *utils.Metrics
}

func NewInvestmentService(
	accounts *AccountService,
	prices PriceServiceI,
	positionRepo repositories.PositionRepository,
	audit *AuditService,
	metrics *utils.Metrics,
) *InvestmentService {
	return &InvestmentService{
		accounts:     accounts,
		prices:       prices,
		positionRepo: positionRepo,
		audit:        audit,
		metrics:      metrics,
	}
}

// Invest buys shares of asset paid in payCurrency at the current price.
// The debit, the position update and the audit event commit together.
func (s *InvestmentService) Invest(ctx context.Context, accountID, asset string, shares decimal.Decimal, payCurrency string) (result *schemas.InvestmentResult, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe("invest", started, err) }()

	shares = Quantize(shares)
	if !shares.IsPositive() {
		return nil, fmt.Errorf("%w: shares %s", ErrInvalidAmount, shares)
	}
	asset = strings.ToUpper(strings.TrimSpace(asset))
	payCurrency, err = s.accounts.currency(payCurrency)
	if err != nil {
		return nil, err
	}
	rate, _ := s.accounts.rate(payCurrency)

	price, err := s.prices.GetPrice(ctx, asset)
	if err != nil {
		return nil, err
	}
	cost := Quantize(shares.Mul(price).Div(rate))

	result = &schemas.InvestmentResult{Asset: asset, Shares: shares, Currency: payCurrency, Cost: cost}
	err = s.accounts.withAccount(ctx, accountID, func(tx *gorm.DB, _ *models.Account) error {
		balance, err := s.accounts.adjustBalanceTx(ctx, tx, accountID, payCurrency, cost.Neg())
		if err != nil {
			return err
		}
		position, err := s.positionRepo.Add(ctx, accountID, asset, shares, tx)
		if err != nil {
			return err
		}
		result.Balance = balance
		result.TotalShares = position.Shares
		return s.audit.Info(ctx, tx, &accountID, "account %s invested %s %s for %s %s", accountID, shares, asset, cost, payCurrency)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *InvestmentService) GetPositions(ctx context.Context, accountID string) (map[string]decimal.Decimal, error) {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	rows, err := s.positionRepo.GetByAccountID(ctx, accountID, nil)
	if err != nil {
		return nil, storageError(err)
	}
	positions := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		positions[row.Asset] = row.Shares
	}
	return positions, nil
}

// ValuePositions prices every position at the current snapshot and returns
// them with their EUR total.
func (s *InvestmentService) ValuePositions(ctx context.Context, accountID string) ([]schemas.PositionValue, decimal.Decimal, error) {
	positions, err := s.GetPositions(ctx, accountID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	prices, err := s.prices.Snapshot(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return valuePositions(positions, prices)
}

func valuePositions(positions map[string]decimal.Decimal, prices map[string]decimal.Decimal) ([]schemas.PositionValue, decimal.Decimal, error) {
	values := make([]schemas.PositionValue, 0, len(positions))
	total := decimal.Zero
	for _, asset := range sortedKeys(positions) {
		price, ok := prices[asset]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
		}
		value := Quantize(positions[asset].Mul(price))
		values = append(values, schemas.PositionValue{
			Asset:    asset,
			Shares:   positions[asset],
			PriceEUR: price,
			ValueEUR: value,
		})
		total = total.Add(value)
	}
	return values, total, nil
}
