package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/richardliu001/point-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm opens the SQL database selected by cfg.Store.Driver.
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		gcfg.PrepareStmt = true
		return gorm.Open(postgres.Open(cfg.Postgres.DSN), gcfg)
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		return gorm.Open(sqlite.Open(cfg.Store.SQLitePath), gcfg)
	default:
		return nil, fmt.Errorf("store driver %q has no database", cfg.Store.Driver)
	}
}
