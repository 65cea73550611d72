package database

import (
	"fmt"

	"github.com/drallgood/bookshelf-api/internal/config"
)

// DatabaseType represents the supported database types
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgresql"
	DatabaseTypeMySQL      DatabaseType = "mysql"
	DatabaseTypeMariaDB    DatabaseType = "mariadb"
)

// DatabaseConfig holds the configuration for database connections
type DatabaseConfig struct {
	Type     DatabaseType
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
	Path     string // For SQLite

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// ConfigFromApp builds the database configuration for a SQL storage driver
func ConfigFromApp(cfg *config.Config) (*DatabaseConfig, error) {
	var dbType DatabaseType
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		dbType = DatabaseTypeSQLite
	case config.DriverPostgreSQL:
		dbType = DatabaseTypePostgreSQL
	case config.DriverMySQL:
		dbType = DatabaseTypeMySQL
	case config.DriverMariaDB:
		dbType = DatabaseTypeMariaDB
	default:
		return nil, fmt.Errorf("storage driver %q is not a database driver", cfg.Storage.Driver)
	}

	db := cfg.Storage.Database
	return &DatabaseConfig{
		Type:            dbType,
		Host:            db.Host,
		Port:            cfg.DatabasePort(),
		Database:        db.Name,
		Username:        db.User,
		Password:        db.Password,
		SSLMode:         db.SSLMode,
		Path:            cfg.Storage.Path,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
	}, nil
}

// Validate checks if the database configuration is valid
func (c *DatabaseConfig) Validate() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.Path == "" {
			return fmt.Errorf("SQLite database path is required")
		}
	case DatabaseTypePostgreSQL, DatabaseTypeMySQL, DatabaseTypeMariaDB:
		if c.Host == "" {
			return fmt.Errorf("database host is required for %s", c.Type)
		}
		if c.Database == "" {
			return fmt.Errorf("database name is required for %s", c.Type)
		}
		if c.Port <= 0 {
			return fmt.Errorf("valid database port is required for %s", c.Type)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// GetDSN returns the data source name for the database connection
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypeSQLite:
		return c.Path
	case DatabaseTypePostgreSQL:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "prefer"
		}
		dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
			c.Host, c.Port, c.Database, sslMode)
		if c.Username != "" {
			dsn += fmt.Sprintf(" user=%s", c.Username)
		}
		if c.Password != "" {
			dsn += fmt.Sprintf(" password=%s", c.Password)
		}
		return dsn
	case DatabaseTypeMySQL, DatabaseTypeMariaDB:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.Username, c.Password, c.Host, c.Port, c.Database)
	default:
		return ""
	}
}
