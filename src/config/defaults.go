package config

import (
	"strings"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultPort               = "8000"
	DefaultLogLevel           = "info"
	DefaultTokenTTL           = 24 * time.Hour
	DefaultDriver             = "postgres"
	DefaultMaxConns           = 5
	DefaultMinConns           = 1
	DefaultTimezone           = "UTC"
	DefaultCashoutCurrency    = "WRR"
	DefaultWinProbability     = 0.45
	DefaultPayoutMultiplier   = 2.0
	DefaultPriceCacheTTL      = 5 * time.Second
	DefaultAuditRecentDefault = 100
	DefaultTickCron           = "@every 30s"
	DefaultMaxStep            = 0.02
)

// DefaultCurrencies are the EUR rates and starting balances of the economy.
func DefaultCurrencies() map[string]CurrencyConfig {
	return map[string]CurrencyConfig{
		"WRR": {Rate: 50.23, StartingBalance: 10},
		"LC":  {Rate: 20.54, StartingBalance: 25},
		"KP":  {Rate: 5.01, StartingBalance: 50},
	}
}

// DefaultAssets are the initial EUR prices of the tradable assets.
func DefaultAssets() map[string]float64 {
	return map[string]float64{
		"WRR":  50.23,
		"WRRC": 100.0,
		"LBC":  75.0,
		"KSP":  40.0,
	}
}

func (c *Config) applyDefaults() {
	if c.Service.Type == "" {
		c.Service.Type = API
	}
	c.Service.Type = ServiceType(strings.ToUpper(string(c.Service.Type)))
	if c.Service.Port == "" {
		c.Service.Port = DefaultPort
	}
	if c.Service.LogLevel == "" {
		c.Service.LogLevel = DefaultLogLevel
	}
	if c.Service.TokenTTL == 0 {
		c.Service.TokenTTL = DefaultTokenTTL
	}

	if c.Databases.SQL.Driver == "" {
		c.Databases.SQL.Driver = DefaultDriver
	}
	if c.Databases.SQL.MaxConns == 0 {
		c.Databases.SQL.MaxConns = DefaultMaxConns
	}
	if c.Databases.SQL.MinConns == 0 {
		c.Databases.SQL.MinConns = DefaultMinConns
	}

	c.Ledger.applyDefaults()

	if c.Worker.TickCron == "" {
		c.Worker.TickCron = DefaultTickCron
	}
	if c.Worker.MaxStep == 0 {
		c.Worker.MaxStep = DefaultMaxStep
	}
}

func (c *LedgerConfig) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}

	// viper lower-cases map keys; codes are upper case everywhere else.
	if len(c.Currencies) == 0 {
		c.Currencies = DefaultCurrencies()
	} else {
		currencies := make(map[string]CurrencyConfig, len(c.Currencies))
		for code, currency := range c.Currencies {
			currencies[strings.ToUpper(code)] = currency
		}
		c.Currencies = currencies
	}
	if len(c.Assets) == 0 {
		c.Assets = DefaultAssets()
	} else {
		assets := make(map[string]float64, len(c.Assets))
		for code, price := range c.Assets {
			assets[strings.ToUpper(code)] = price
		}
		c.Assets = assets
	}

	if c.CashoutCurrency == "" {
		c.CashoutCurrency = DefaultCashoutCurrency
	}
	c.CashoutCurrency = strings.ToUpper(c.CashoutCurrency)
	if c.CashoutRateSource == "" {
		c.CashoutRateSource = RateSourceFixed
	}
	if c.WinProbability == 0 {
		c.WinProbability = DefaultWinProbability
	}
	if c.PayoutMultiplier == 0 {
		c.PayoutMultiplier = DefaultPayoutMultiplier
	}
	if c.PriceCacheTTL == 0 {
		c.PriceCacheTTL = DefaultPriceCacheTTL
	}
	if c.AuditRecentDefault == 0 {
		c.AuditRecentDefault = DefaultAuditRecentDefault
	}
}

// Default returns a configuration with every default applied, suitable for
// tests and local tools.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
