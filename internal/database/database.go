package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/drallgood/bookshelf-api/internal/logger"
)

// Database is an open connection with the books table migrated
type Database struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewDatabase connects using config and makes sure the books table exists
func NewDatabase(config *DatabaseConfig, log *logger.Logger) (*Database, error) {
	if log == nil {
		log = logger.Get()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	driver, err := GetDatabaseDriver(config.Type)
	if err != nil {
		return nil, err
	}

	db, err := driver.Connect(config, log)
	if err != nil {
		return nil, err
	}

	d := &Database{db: db, logger: log}
	if err := db.AutoMigrate(&BookRecord{}); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to migrate books table: %w", err)
	}

	fields := map[string]interface{}{"type": string(config.Type)}
	if config.Type == DatabaseTypeSQLite {
		fields["path"] = config.Path
	} else {
		fields["host"] = config.Host
		fields["database"] = config.Database
	}
	log.Info("Book database ready", fields)
	return d, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	d.logger.Info("Database connection closed", nil)
	return nil
}

// GetDB returns the underlying GORM database instance
func (d *Database) GetDB() *gorm.DB {
	return d.db
}
