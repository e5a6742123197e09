package database

import (
	"context"
	"fmt"

	"ledger/src/config"
	"ledger/src/models"
	aws_handler "ledger/src/utils/aws"

	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SecretReader fetches database credentials from a secret store.
type SecretReader interface {
	GetDBCredentials(ctx context.Context, secretId string) (*aws_handler.DBCredentials, error)
}

// Open connects to the configured SQL database and returns a gorm handle
// plus the function releasing every underlying resource.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, func(), error) {
	sqlCfg := cfg.Databases.SQL
	if cfg.AWS.DBSecretName != "" {
		handler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, nil, fmt.Errorf("create aws session: %w", err)
		}
		sqlCfg, err = ResolveCredentials(ctx, sqlCfg, handler.SecretManager, cfg.AWS.DBSecretName)
		if err != nil {
			return nil, nil, err
		}
	}
	return OpenSQL(ctx, sqlCfg)
}

// ResolveCredentials overrides the configured user and password with the
// ones stored in secretName.
func ResolveCredentials(ctx context.Context, cfg config.SQLConfig, secrets SecretReader, secretName string) (config.SQLConfig, error) {
	creds, err := secrets.GetDBCredentials(ctx, secretName)
	if err != nil {
		return cfg, fmt.Errorf("read database secret: %w", err)
	}
	if creds.Username != "" {
		cfg.Username = creds.Username
	}
	cfg.Password = creds.Password
	return cfg, nil
}

// OpenSQL opens a gorm handle for cfg.Driver.
func OpenSQL(ctx context.Context, cfg config.SQLConfig) (*gorm.DB, func(), error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case "postgres":
		pool, err := SetupDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("open gorm postgres: %w", err)
		}
		return db, func() {
			_ = sqlDB.Close()
			pool.Close()
		}, nil

	case "mysql":
		dsn := cfg.ConnectionString
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
				cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		}
		db, err := gorm.Open(mysql.Open(dsn), gormCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open gorm mysql: %w", err)
		}
		if err := configurePool(db, cfg); err != nil {
			return nil, nil, err
		}
		return db, closer(db), nil

	case "sqlite":
		dsn := cfg.ConnectionString
		if dsn == "" {
			dsn = cfg.Database + ".db"
		}
		db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open gorm sqlite: %w", err)
		}
		if err := configurePool(db, cfg); err != nil {
			return nil, nil, err
		}
		return db, closer(db), nil
	}
	return nil, nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
}

func configurePool(db *gorm.DB, cfg config.SQLConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if cfg.MaxConns <= 0 {
		return nil
	}
	sqlDB.SetMaxOpenConns(int(cfg.MaxConns))
	sqlDB.SetMaxIdleConns(int(cfg.MaxConns))
	return nil
}

func closer(db *gorm.DB) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// AutoMigrate creates the ledger tables on drivers goose does not manage.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
