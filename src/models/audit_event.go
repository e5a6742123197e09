package models

import "time"

// AuditEvent is an append-only record of a balance-affecting event.
type AuditEvent struct {
	ID        uint64    `gorm:"primaryKey;column:id;autoIncrement"`
	Timestamp time.Time `gorm:"column:ts;index;not null"`
	Level     string    `gorm:"column:level;type:varchar(16);not null"`
	AccountID *string   `gorm:"column:account_id;type:varchar(36);index"`
	Message   string    `gorm:"column:message;type:text;not null"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// All returns every model the ledger persists, in dependency order.
func All() []interface{} {
	return []interface{}{&Account{}, &Balance{}, &Position{}, &Price{}, &AuditEvent{}}
}
