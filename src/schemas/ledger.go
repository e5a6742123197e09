package schemas

import (
	"time"

	"github.com/shopspring/decimal"
)

type PositionValue struct {
	Asset    string          `json:"asset"`
	Shares   decimal.Decimal `json:"shares"`
	PriceEUR decimal.Decimal `json:"price_eur"`
	ValueEUR decimal.Decimal `json:"value_eur"`
}

type InvestmentRequest struct {
	Asset    string          `json:"asset"`
	Shares   decimal.Decimal `json:"shares"`
	Currency string          `json:"currency"`
}

type InvestmentResult struct {
	Asset       string          `json:"asset"`
	Shares      decimal.Decimal `json:"shares"`
	TotalShares decimal.Decimal `json:"total_shares"`
	Currency    string          `json:"currency"`
	Cost        decimal.Decimal `json:"cost"`
	Balance     decimal.Decimal `json:"balance"`
}

type CashoutResult struct {
	TotalEUR decimal.Decimal `json:"total_eur"`
	Currency string          `json:"currency"`
	Credited decimal.Decimal `json:"credited"`
	Balance  decimal.Decimal `json:"balance"`
	Date     string          `json:"date"`
}

type WagerRequest struct {
	Currency string          `json:"currency"`
	Stake    decimal.Decimal `json:"stake"`
}

type WagerResult struct {
	Currency string          `json:"currency"`
	Stake    decimal.Decimal `json:"stake"`
	Won      bool            `json:"won"`
	Payout   decimal.Decimal `json:"payout"`
	Balance  decimal.Decimal `json:"balance"`
}

type AuditEvent struct {
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Level     string    `json:"level"`
	AccountID *string   `json:"account_id,omitempty"`
	Message   string    `json:"message"`
}

type SetPriceRequest struct {
	PriceEUR decimal.Decimal `json:"price_eur"`
}
