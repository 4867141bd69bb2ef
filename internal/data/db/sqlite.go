package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// NewSQLiteService opens a single-connection SQLite database. SQLite has no row
// locks, so job claiming is only safe with one worker process.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	db, err := OpenSQLite(path, gormConfig())
	if err != nil {
		return nil, err
	}
	serviceLog.Info("Opened SQLite database", "path", path)
	return &Service{db: db, log: serviceLog}, nil
}

func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	return db, nil
}

// InMemory opens a private in-memory SQLite database, migrated and ready.
func InMemory(name string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = gormConfig()
	}
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}
