package repositories

import (
	"context"
	"time"

	"ledger/src/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PositionRepository interface {
	GetByAccountID(ctx context.Context, accountID string, tx *gorm.DB) ([]models.Position, error)
	Add(ctx context.Context, accountID, asset string, shares decimal.Decimal, tx *gorm.DB) (*models.Position, error)
	DeleteByAccountID(ctx context.Context, accountID string, tx *gorm.DB) (int64, error)
}

type positionRepo struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) GetByAccountID(ctx context.Context, accountID string, tx *gorm.DB) ([]models.Position, error) {
	var positions []models.Position
	err := conn(ctx, r.db, tx).
		Where("account_id = ?", accountID).
		Order("asset").
		Find(&positions).Error
	return positions, err
}

// Add accumulates shares into the (account, asset) position, creating it on
// first purchase. Callers serialize per account.
func (r *positionRepo) Add(ctx context.Context, accountID, asset string, shares decimal.Decimal, tx *gorm.DB) (*models.Position, error) {
	q := conn(ctx, r.db, tx)

	var position models.Position
	err := q.Where("account_id = ? AND asset = ?", accountID, asset).First(&position).Error
	if isNotFound(err) {
		position = models.Position{AccountID: accountID, Asset: asset, Shares: shares}
		if err := q.Create(&position).Error; err != nil {
			return nil, err
		}
		return &position, nil
	}
	if err != nil {
		return nil, err
	}

	position.Shares = position.Shares.Add(shares)
	position.UpdatedAt = time.Now()
	err = q.Model(&models.Position{}).
		Where("account_id = ? AND asset = ?", accountID, asset).
		Updates(map[string]interface{}{"shares": position.Shares, "updated_at": position.UpdatedAt}).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) DeleteByAccountID(ctx context.Context, accountID string, tx *gorm.DB) (int64, error) {
	res := conn(ctx, r.db, tx).Where("account_id = ?", accountID).Delete(&models.Position{})
	return res.RowsAffected, res.Error
}
