package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// conn picks the caller's transaction when one is given.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// supportsRowLocks reports whether SELECT ... FOR UPDATE is meaningful.
func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
