package services

import (
	"context"
	"fmt"
	"time"

	"ledger/src/config"
	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/schemas"
	"ledger/src/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashoutServiceI interface {
	Cashout(ctx context.Context, accountID string) (*schemas.CashoutResult, error)
	Eligibility(ctx context.Context, accountID string) (*schemas.Eligibility, error)
}

// CashoutService liquidates every position of an account into the cashout
// currency, at most once per calendar day of the reference timezone.
type CashoutService struct {
	accounts     *AccountService
	prices       PriceServiceI
	accountRepo  repositories.AccountRepository
	positionRepo repositories.PositionRepository
	audit        *AuditService
	metrics      *utils.Metrics

	currency   string
	rateSource config.RateSource
	location   *time.Location
	now        func() time.Time
}

func NewCashoutService(
	accounts *AccountService,
	prices PriceServiceI,
	accountRepo repositories.AccountRepository,
	positionRepo repositories.PositionRepository,
	audit *AuditService,
	ledgerCfg config.LedgerConfig,
	metrics *utils.Metrics,
) (*CashoutService, error) {
	location, err := ledgerCfg.Location()
	if err != nil {
		return nil, err
	}
	return &CashoutService{
		accounts:     accounts,
		prices:       prices,
		accountRepo:  accountRepo,
		positionRepo: positionRepo,
		audit:        audit,
		metrics:      metrics,
		currency:     ledgerCfg.CashoutCurrency,
		rateSource:   ledgerCfg.CashoutRateSource,
		location:     location,
		now:          time.Now,
	}, nil
}

// SetClock replaces the time source used to decide the current day.
func (s *CashoutService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *CashoutService) today() string {
	return utils.CalendarDate(s.now(), s.location)
}

func (s *CashoutService) Eligibility(ctx context.Context, accountID string) (*schemas.Eligibility, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	today := s.today()
	return &schemas.Eligibility{
		Eligible:        !cashedOutOn(account, today),
		Today:           today,
		LastCashoutDate: account.LastCashoutDate,
	}, nil
}

// Cashout values all positions at current prices, removes them, credits the
// converted total and marks today as used. A second call on the same day
// fails with ErrAlreadyCashedOutToday and changes nothing.
func (s *CashoutService) Cashout(ctx context.Context, accountID string) (result *schemas.CashoutResult, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe("cashout", started, err) }()

	today := s.today()
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if cashedOutOn(account, today) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCashedOutToday, today)
	}

	prices, err := s.prices.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := s.conversionRate(prices)
	if err != nil {
		return nil, err
	}

	result = &schemas.CashoutResult{Currency: s.currency, Date: today}
	err = s.accounts.withAccount(ctx, accountID, func(tx *gorm.DB, account *models.Account) error {
		if cashedOutOn(account, today) {
			return fmt.Errorf("%w: %s", ErrAlreadyCashedOutToday, today)
		}

		rows, err := s.positionRepo.GetByAccountID(ctx, accountID, tx)
		if err != nil {
			return err
		}
		positions := make(map[string]decimal.Decimal, len(rows))
		for _, row := range rows {
			positions[row.Asset] = row.Shares
		}
		_, total, err := valuePositions(positions, prices)
		if err != nil {
			return err
		}

		if _, err := s.positionRepo.DeleteByAccountID(ctx, accountID, tx); err != nil {
			return err
		}
		credited := Quantize(total.Div(rate))
		balance, err := s.accounts.adjustBalanceTx(ctx, tx, accountID, s.currency, credited)
		if err != nil {
			return err
		}
		if err := s.accountRepo.SetLastCashoutDate(ctx, accountID, today, tx); err != nil {
			return err
		}

		result.TotalEUR = total
		result.Credited = credited
		result.Balance = balance
		return s.audit.Info(ctx, tx, &accountID, "account %s cashed out %s EUR -> %s %s",
			accountID, total.StringFixed(2), credited.StringFixed(4), s.currency)
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithField("account_id", accountID).
		Infof("cashout credited %s %s", result.Credited, result.Currency)
	return result, nil
}

func (s *CashoutService) conversionRate(prices map[string]decimal.Decimal) (decimal.Decimal, error) {
	if s.rateSource == config.RateSourceMarket {
		price, ok := prices[s.currency]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownAsset, s.currency)
		}
		return price, nil
	}
	return s.accounts.rate(s.currency)
}

func cashedOutOn(account *models.Account, day string) bool {
	return account.LastCashoutDate != nil && *account.LastCashoutDate == day
}
