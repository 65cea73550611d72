package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/drallgood/bookshelf-api/internal/logger"

	// Pure Go SQLite driver (no CGO required)
	_ "modernc.org/sqlite"
)

// DatabaseDriver opens a gorm connection for one database type
type DatabaseDriver interface {
	Connect(config *DatabaseConfig, log *logger.Logger) (*gorm.DB, error)
	GetDialector(config *DatabaseConfig) gorm.Dialector
}

// GetDatabaseDriver returns the appropriate driver for the given database type
func GetDatabaseDriver(dbType DatabaseType) (DatabaseDriver, error) {
	switch dbType {
	case DatabaseTypeSQLite:
		return &SQLiteDriver{}, nil
	case DatabaseTypePostgreSQL:
		return &PostgreSQLDriver{}, nil
	case DatabaseTypeMySQL, DatabaseTypeMariaDB:
		return &MySQLDriver{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	// Logging is handled by the application logger
	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// SQLiteDriver stores books in a local file through the pure Go modernc driver
type SQLiteDriver struct{}

func (d *SQLiteDriver) Connect(config *DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := openGorm(d.GetDialector(config))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// a single connection serializes writers
	if err := configurePool(db, &DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxLifetime: 60}); err != nil {
		return nil, err
	}

	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		log.Warn("Failed to enable WAL mode", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return db, nil
}

func (d *SQLiteDriver) GetDialector(config *DatabaseConfig) gorm.Dialector {
	// "sqlite" is the name modernc.org/sqlite registers itself under
	return sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        config.Path,
	}
}

// PostgreSQLDriver connects to an existing PostgreSQL database
type PostgreSQLDriver struct{}

func (d *PostgreSQLDriver) Connect(config *DatabaseConfig, _ *logger.Logger) (*gorm.DB, error) {
	return connectServer("PostgreSQL", d.GetDialector(config), config)
}

func (d *PostgreSQLDriver) GetDialector(config *DatabaseConfig) gorm.Dialector {
	return postgres.Open(config.GetDSN())
}

// MySQLDriver connects to an existing MySQL or MariaDB database
type MySQLDriver struct{}

func (d *MySQLDriver) Connect(config *DatabaseConfig, _ *logger.Logger) (*gorm.DB, error) {
	return connectServer("MySQL", d.GetDialector(config), config)
}

func (d *MySQLDriver) GetDialector(config *DatabaseConfig) gorm.Dialector {
	return mysql.Open(config.GetDSN())
}

// connectServer opens a networked database and applies the configured pool limits
func connectServer(name string, dialector gorm.Dialector, config *DatabaseConfig) (*gorm.DB, error) {
	db, err := openGorm(dialector)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}
	if err := configurePool(db, config); err != nil {
		return nil, err
	}
	return db, nil
}

func configurePool(db *gorm.DB, config *DatabaseConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Minute)
	}
	return nil
}
