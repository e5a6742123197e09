package repositories

import (
	"context"

	"ledger/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceRepository interface {
	GetAll(ctx context.Context) ([]models.Price, error)
	GetByAsset(ctx context.Context, asset string) (*models.Price, error)
	Upsert(ctx context.Context, p *models.Price) error
	CreateIfMissing(ctx context.Context, p *models.Price) (bool, error)
}

type priceRepo struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepo{db: db}
}

func (r *priceRepo) GetAll(ctx context.Context) ([]models.Price, error) {
	var prices []models.Price
	err := r.db.WithContext(ctx).Order("asset").Find(&prices).Error
	return prices, err
}

// GetByAsset returns nil for an unknown asset.
func (r *priceRepo) GetByAsset(ctx context.Context, asset string) (*models.Price, error) {
	var price models.Price
	err := r.db.WithContext(ctx).Where("asset = ?", asset).First(&price).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *priceRepo) Upsert(ctx context.Context, p *models.Price) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_eur", "updated_at"}),
	}).Create(p).Error
}

// CreateIfMissing inserts p unless the asset already has a price and
// reports whether a row was written.
func (r *priceRepo) CreateIfMissing(ctx context.Context, p *models.Price) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	return res.RowsAffected > 0, res.Error
}
