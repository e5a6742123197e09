package init_test

import (
	"context"
	"fmt"
	"testing"

	"ledger/src/config"
	"ledger/src/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory SQLite database with every ledger
// table created. It is closed when the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, closeDB, err := database.OpenSQL(context.Background(), config.SQLConfig{
		Driver:           "sqlite",
		ConnectionString: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxConns:         1,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(closeDB)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// TestConfig returns the default configuration with a test JWT secret.
func TestConfig() *config.Config {
	cfg := config.Default()
	cfg.Service.JWTSecret = "testing-secret"
	return cfg
}
