package repositories

import (
	"context"

	"ledger/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id string, tx *gorm.DB) (*models.Account, error)
	GetByName(ctx context.Context, name string, tx *gorm.DB) (*models.Account, error)
	LockByID(ctx context.Context, id string, tx *gorm.DB) (*models.Account, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, a *models.Account, tx *gorm.DB) error
	SetLastCashoutDate(ctx context.Context, id, date string, tx *gorm.DB) error
}

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

// GetByID returns nil when the account does not exist.
func (r *accountRepo) GetByID(ctx context.Context, id string, tx *gorm.DB) (*models.Account, error) {
	var account models.Account
	err := conn(ctx, r.db, tx).Where("id = ?", id).First(&account).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByName returns nil when no account is registered under name.
func (r *accountRepo) GetByName(ctx context.Context, name string, tx *gorm.DB) (*models.Account, error) {
	var account models.Account
	err := conn(ctx, r.db, tx).Where("name = ?", name).First(&account).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// LockByID reads the account row and holds a row lock on it until tx ends.
// It must run inside a transaction.
func (r *accountRepo) LockByID(ctx context.Context, id string, tx *gorm.DB) (*models.Account, error) {
	q := conn(ctx, r.db, tx)
	if supportsRowLocks(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var account models.Account
	err := q.Where("id = ?", id).First(&account).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, err
}

func (r *accountRepo) Create(ctx context.Context, a *models.Account, tx *gorm.DB) error {
	return conn(ctx, r.db, tx).Create(a).Error
}

func (r *accountRepo) SetLastCashoutDate(ctx context.Context, id, date string, tx *gorm.DB) error {
	return conn(ctx, r.db, tx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_cashout_date", date).Error
}
