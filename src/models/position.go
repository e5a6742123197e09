package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Position struct {
	AccountID string          `gorm:"primaryKey;column:account_id;type:varchar(36)"`
	Asset     string          `gorm:"primaryKey;column:asset;type:varchar(16)"`
	Shares    decimal.Decimal `gorm:"column:shares;type:numeric(38,8);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Position) TableName() string {
	return "positions"
}
