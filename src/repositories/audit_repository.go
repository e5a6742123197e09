package repositories

import (
	"context"

	"ledger/src/models"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(ctx context.Context, e *models.AuditEvent, tx *gorm.DB) error
	GetRecent(ctx context.Context, limit int) ([]models.AuditEvent, error)
	GetRecentByAccountID(ctx context.Context, accountID string, limit int) ([]models.AuditEvent, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, e *models.AuditEvent, tx *gorm.DB) error {
	return conn(ctx, r.db, tx).Create(e).Error
}

// GetRecent returns the newest events first.
func (r *auditRepo) GetRecent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := r.db.WithContext(ctx).
		Order("ts DESC").Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *auditRepo) GetRecentByAccountID(ctx context.Context, accountID string, limit int) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("ts DESC").Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
