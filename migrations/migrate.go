package main

import (
	"context"
	"log"
	"os"

	"ledger/src/config"
	"ledger/src/database"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Error loading config for environment: %v", err)
	}

	ctx := context.Background()
	db, closeDB, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB()

	if cfg.Databases.SQL.Driver != "postgres" {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to auto-migrate %s database: %v", cfg.Databases.SQL.Driver, err)
		}
		log.Println("Database migration completed successfully")
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB from GORM DB: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(sqlDB, "./migrations"); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Database migration completed successfully")
}
