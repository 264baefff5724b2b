package database

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/majordome-app/majordome/internal/config"
	"github.com/majordome-app/majordome/internal/logger"
	"github.com/majordome-app/majordome/internal/types"
)

// Open connects to the configured database and migrates the schema
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info(ctx, "connected to %s database", cfg.Driver)
	return db, nil
}

// Migrate creates or updates the five core tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.User{},
		&types.Conversation{},
		&types.Message{},
		&types.Memory{},
		&types.OAuthToken{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
