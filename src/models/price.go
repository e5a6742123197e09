package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Price struct {
	Asset     string          `gorm:"primaryKey;column:asset;type:varchar(16)"`
	PriceEUR  decimal.Decimal `gorm:"column:price_eur;type:numeric(38,8);not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (Price) TableName() string {
	return "prices"
}
