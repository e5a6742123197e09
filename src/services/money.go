package services

import "github.com/shopspring/decimal"

// Places is the number of decimals every ledger amount is kept to.
const Places = 8

// Epsilon is the smallest representable ledger amount.
var Epsilon = decimal.New(1, -Places)

// Quantize rounds d half away from zero to the ledger quantum.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Amount converts a float input into a quantized ledger amount.
func Amount(f float64) decimal.Decimal {
	return Quantize(decimal.NewFromFloat(f))
}
