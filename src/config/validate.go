package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Service.Type != API && c.Service.Type != WORKER {
		return fmt.Errorf("service.type must be API or WORKER, got %q", c.Service.Type)
	}

	switch c.Databases.SQL.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("databases.sql.driver must be postgres, mysql or sqlite, got %q", c.Databases.SQL.Driver)
	}
	if c.Databases.SQL.MinConns > c.Databases.SQL.MaxConns {
		return errors.New("databases.sql.minConns must not exceed databases.sql.maxConns")
	}

	if c.Databases.Redis.Enabled && c.Databases.Redis.Host == "" {
		return errors.New("databases.redis.host is required when redis is enabled")
	}

	return c.Ledger.Validate()
}

// Validate checks the economy parameters.
func (c *LedgerConfig) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("ledger.timezone: %w", err)
	}
	for code, currency := range c.Currencies {
		if currency.Rate <= 0 {
			return fmt.Errorf("ledger.currencies.%s.rate must be > 0", code)
		}
		if currency.StartingBalance < 0 {
			return fmt.Errorf("ledger.currencies.%s.startingBalance must be >= 0", code)
		}
	}
	for code, price := range c.Assets {
		if price <= 0 {
			return fmt.Errorf("ledger.assets.%s must be > 0", code)
		}
	}
	if _, ok := c.Currencies[c.CashoutCurrency]; !ok {
		return fmt.Errorf("ledger.cashoutCurrency %q is not a configured currency", c.CashoutCurrency)
	}
	if c.CashoutRateSource != RateSourceFixed && c.CashoutRateSource != RateSourceMarket {
		return fmt.Errorf("ledger.cashoutRateSource must be fixed or market, got %q", c.CashoutRateSource)
	}
	if c.CashoutRateSource == RateSourceMarket {
		if _, ok := c.Assets[c.CashoutCurrency]; !ok {
			return fmt.Errorf("ledger.cashoutRateSource market needs an asset named %s", c.CashoutCurrency)
		}
	}
	if c.WinProbability <= 0 || c.WinProbability >= 1 {
		return fmt.Errorf("ledger.winProbability must be in (0, 1), got %v", c.WinProbability)
	}
	if c.PayoutMultiplier <= 0 {
		return errors.New("ledger.payoutMultiplier must be > 0")
	}
	return nil
}
