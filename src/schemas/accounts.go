package schemas

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

type Account struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	LastCashoutDate *string   `json:"last_cashout_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// Eligibility tells whether a cashout is still available today.
type Eligibility struct {
	Eligible        bool    `json:"eligible"`
	Today           string  `json:"today"`
	LastCashoutDate *string `json:"last_cashout_date"`
}

// Dashboard is everything the account overview shows at once.
type Dashboard struct {
	Account   Account                    `json:"account"`
	Balances  map[string]decimal.Decimal `json:"balances"`
	Positions []PositionValue            `json:"positions"`
	Total     decimal.Decimal            `json:"total_value_eur"`
	Cashout   Eligibility                `json:"cashout"`
	Prices    map[string]decimal.Decimal `json:"prices"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}
