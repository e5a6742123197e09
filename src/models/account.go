package models

import "time"

type Account struct {
	ID              string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name            string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null"`
	PasswordHash    string    `gorm:"column:password_hash;type:varchar(255);not null"`
	LastCashoutDate *string   `gorm:"column:last_cashout_date;type:varchar(10)"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
