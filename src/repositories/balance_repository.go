package repositories

import (
	"context"

	"ledger/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository interface {
	GetByAccountID(ctx context.Context, accountID string, tx *gorm.DB) ([]models.Balance, error)
	Get(ctx context.Context, accountID, currency string, tx *gorm.DB) (*models.Balance, error)
	Upsert(ctx context.Context, b *models.Balance, tx *gorm.DB) error
}

type balanceRepo struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepo{db: db}
}

func (r *balanceRepo) GetByAccountID(ctx context.Context, accountID string, tx *gorm.DB) ([]models.Balance, error) {
	var balances []models.Balance
	err := conn(ctx, r.db, tx).
		Where("account_id = ?", accountID).
		Order("currency").
		Find(&balances).Error
	return balances, err
}

// Get returns nil when the account never held currency.
func (r *balanceRepo) Get(ctx context.Context, accountID, currency string, tx *gorm.DB) (*models.Balance, error) {
	var balance models.Balance
	err := conn(ctx, r.db, tx).
		Where("account_id = ? AND currency = ?", accountID, currency).
		First(&balance).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *balanceRepo) Upsert(ctx context.Context, b *models.Balance, tx *gorm.DB) error {
	return conn(ctx, r.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(b).Error
}
