package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Balance struct {
	AccountID string          `gorm:"primaryKey;column:account_id;type:varchar(36)"`
	Currency  string          `gorm:"primaryKey;column:currency;type:varchar(16)"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(38,8);not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Balance) TableName() string {
	return "balances"
}
