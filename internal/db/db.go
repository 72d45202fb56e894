package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"wikiqa/internal/config"
	"wikiqa/internal/history"
)

var DB *gorm.DB

// Open connects with the configured driver without migrating.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// Init opens the history database and migrates it. An empty driver leaves
// history disabled and DB nil.
func Init(cfg *config.Config) error {
	if cfg.Database.Driver == "" {
		log.Printf("[DB] No database configured, history disabled")
		DB = nil
		return nil
	}
	db, err := Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&history.Interaction{}); err != nil {
		return err
	}

	DB = db
	log.Printf("[DB] %s database connected and migrated", cfg.Database.Driver)
	return nil
}
