package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"ledger/src/config"
	"ledger/src/models"
	"ledger/src/schemas"
	"ledger/src/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WagerServiceI interface {
	Wager(ctx context.Context, accountID, currency string, stake decimal.Decimal) (*schemas.WagerResult, error)
}

// WagerService runs the fixed-odds game: the stake is debited, then a single
// draw decides whether multiplier*stake is paid back.
type WagerService struct {
	accounts *AccountService
	audit    *AuditService
	metrics  *utils.Metrics

	winProbability float64
	multiplier     decimal.Decimal
	draw           func() float64
}

func NewWagerService(accounts *AccountService, audit *AuditService, ledgerCfg config.LedgerConfig, metrics *utils.Metrics) *WagerService {
	return &WagerService{
		accounts:       accounts,
		audit:          audit,
		metrics:        metrics,
		winProbability: ledgerCfg.WinProbability,
		multiplier:     decimal.NewFromFloat(ledgerCfg.PayoutMultiplier),
		draw:           rand.Float64,
	}
}

// SetDraw replaces the source of uniform [0, 1) draws.
func (s *WagerService) SetDraw(draw func() float64) {
	s.draw = draw
}

func (s *WagerService) Wager(ctx context.Context, accountID, currency string, stake decimal.Decimal) (result *schemas.WagerResult, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe("wager", started, err) }()

	stake = Quantize(stake)
	if !stake.IsPositive() {
		return nil, fmt.Errorf("%w: stake %s", ErrInvalidAmount, stake)
	}
	currency, err = s.accounts.currency(currency)
	if err != nil {
		return nil, err
	}

	result = &schemas.WagerResult{Currency: currency, Stake: stake, Payout: decimal.Zero}
	err = s.accounts.withAccount(ctx, accountID, func(tx *gorm.DB, _ *models.Account) error {
		balance, err := s.accounts.adjustBalanceTx(ctx, tx, accountID, currency, stake.Neg())
		if err != nil {
			return err
		}

		result.Won = s.draw() < s.winProbability
		if result.Won {
			result.Payout = Quantize(stake.Mul(s.multiplier))
			balance, err = s.accounts.adjustBalanceTx(ctx, tx, accountID, currency, result.Payout)
			if err != nil {
				return err
			}
		}
		result.Balance = balance

		if result.Won {
			return s.audit.Info(ctx, tx, &accountID, "account %s won %s %s on a %s stake", accountID, result.Payout, currency, stake)
		}
		return s.audit.Info(ctx, tx, &accountID, "account %s lost %s %s", accountID, stake, currency)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
