// Package database opens the gorm connection for the configured driver and
// migrates the catalog schema.
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/axellelanca/coursecatalog/internal/config"
	"github.com/axellelanca/coursecatalog/internal/models"
)

// Open connects to the database described by cfg.Database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.Database.LogLevel)),
		TranslateError: true,
	}

	switch cfg.Database.Driver {
	case "", "sqlite":
		return OpenSQLite(cfg.Database.Name, gormCfg)
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// OpenSQLite opens a SQLite database file (or ":memory:").
// SQLite allows a single writer, so the pool is limited to one connection:
// concurrent redirects queue on the pool instead of failing with SQLITE_BUSY,
// and an in-memory database keeps its content for the life of the pool.
func OpenSQLite(name string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(name), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database %s: %w", name, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates the courses and clicks tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Course{}, &models.Click{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
