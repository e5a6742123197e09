package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Databases DatabasesConfig `mapstructure:"databases"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	AWS       AWSConfig       `mapstructure:"aws"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type      ServiceType   `mapstructure:"type"`
	Port      string        `mapstructure:"port"`
	LogLevel  string        `mapstructure:"logLevel"`
	LogFile   string        `mapstructure:"logFile"`
	JWTSecret string        `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	SeedDemo  bool          `mapstructure:"seedDemo"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int32  `mapstructure:"maxConns"`
	MinConns         int32  `mapstructure:"minConns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

// CurrencyConfig describes a spendable currency: its fixed EUR rate and the
// amount every new account starts with.
type CurrencyConfig struct {
	Rate            float64 `mapstructure:"rate"`
	StartingBalance float64 `mapstructure:"startingBalance"`
}

type RateSource string

const (
	RateSourceFixed  RateSource = "fixed"
	RateSourceMarket RateSource = "market"
)

type LedgerConfig struct {
	Timezone           string                    `mapstructure:"timezone"`
	Currencies         map[string]CurrencyConfig `mapstructure:"currencies"`
	Assets             map[string]float64        `mapstructure:"assets"`
	CashoutCurrency    string                    `mapstructure:"cashoutCurrency"`
	CashoutRateSource  RateSource                `mapstructure:"cashoutRateSource"`
	WinProbability     float64                   `mapstructure:"winProbability"`
	PayoutMultiplier   float64                   `mapstructure:"payoutMultiplier"`
	PriceCacheTTL      time.Duration             `mapstructure:"priceCacheTTL"`
	AuditRecentDefault int                       `mapstructure:"auditRecentDefault"`
}

type WorkerConfig struct {
	TickCron string  `mapstructure:"tickCron"`
	MaxStep  float64 `mapstructure:"maxStep"`
}

type AWSConfig struct {
	Region       string `mapstructure:"region"`
	DBSecretName string `mapstructure:"dbSecretName"`
}

// LoadConfig reads settings/appsettings.yaml and, when env is set, merges
// appsettings.<env>.yaml on top. Environment variables prefixed with LEDGER_
// override both.
func LoadConfig(path string, env ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if len(env) > 0 && env[0] != "" {
		v.SetConfigName("appsettings." + env[0])
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("merge %s settings: %w", env[0], err)
			}
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the reference timezone used for calendar dates.
func (c LedgerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CurrencyCodes returns the configured currency codes.
func (c LedgerConfig) CurrencyCodes() []string {
	codes := make([]string, 0, len(c.Currencies))
	for code := range c.Currencies {
		codes = append(codes, code)
	}
	return codes
}
