package services

import (
	"context"

	"ledger/src/config"
	"ledger/src/repositories"
	"ledger/src/utils"

	"gorm.io/gorm"
)

// Ledger bundles the engines sharing one database and account lock table.
type Ledger struct {
	Accounts    *AccountService
	Investments *InvestmentService
	Cashouts    *CashoutService
	Wagers      *WagerService
	Prices      *PriceService
	Market      *MarketService
	Audit       *AuditService
	Statements  *StatementService
}

// NewLedger wires every engine over db. A nil cache keeps prices in process
// for ledger.priceCacheTTL.
func NewLedger(db *gorm.DB, cfg *config.Config, cache PriceCache, metrics *utils.Metrics) (*Ledger, error) {
	accountRepo := repositories.NewAccountRepository(db)
	balanceRepo := repositories.NewBalanceRepository(db)
	positionRepo := repositories.NewPositionRepository(db)
	priceRepo := repositories.NewPriceRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	if cache == nil {
		cache = NewMemoryPriceCache(cfg.Ledger.PriceCacheTTL)
	}

	audit := NewAuditService(auditRepo, cfg.Ledger.AuditRecentDefault)
	prices := NewPriceService(priceRepo, cache)
	accounts := NewAccountService(db, accountRepo, balanceRepo, audit, cfg.Ledger, metrics)
	investments := NewInvestmentService(accounts, prices, positionRepo, audit, metrics)
	cashouts, err := NewCashoutService(accounts, prices, accountRepo, positionRepo, audit, cfg.Ledger, metrics)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		Accounts:    accounts,
		Investments: investments,
		Cashouts:    cashouts,
		Wagers:      NewWagerService(accounts, audit, cfg.Ledger, metrics),
		Prices:      prices,
		Market:      NewMarketService(prices, audit, cfg.Worker.MaxStep, metrics),
		Audit:       audit,
		Statements:  NewStatementService(accounts, investments, audit),
	}, nil
}

// Bootstrap seeds missing asset prices and, when seedDemo is set and no
// account exists yet, the demo accounts.
func (l *Ledger) Bootstrap(ctx context.Context, cfg *config.Config) error {
	logger := utils.LoggerFromContext(ctx)

	seeded, err := l.Prices.SeedPrices(ctx, cfg.Ledger.Assets)
	if err != nil {
		return err
	}
	if seeded > 0 {
		logger.Infof("seeded %d asset prices", seeded)
	}

	if !cfg.Service.SeedDemo {
		return nil
	}
	count, err := l.Accounts.Count(ctx)
	if err != nil || count > 0 {
		return err
	}
	for _, name := range []string{"alice", "bob"} {
		if _, err := l.Accounts.CreateAccount(ctx, name, name+"pass"); err != nil {
			return err
		}
	}
	logger.Info("created demo accounts alice/bob")
	return l.Audit.Info(ctx, nil, nil, "Created demo users alice/bob")
}
