package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageDriver selects the backing store for the book collection
type StorageDriver string

const (
	DriverJSON       StorageDriver = "json"
	DriverYAML       StorageDriver = "yaml"
	DriverSQLite     StorageDriver = "sqlite"
	DriverPostgreSQL StorageDriver = "postgresql"
	DriverMySQL      StorageDriver = "mysql"
	DriverMariaDB    StorageDriver = "mariadb"
)

// ParseStorageDriver normalizes a driver name. Unknown names are returned as-is
// so Validate can report them.
func ParseStorageDriver(s string) StorageDriver {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return DriverJSON
	case "yaml", "yml":
		return DriverYAML
	case "sqlite", "sqlite3":
		return DriverSQLite
	case "postgresql", "postgres":
		return DriverPostgreSQL
	case "mysql":
		return DriverMySQL
	case "mariadb":
		return DriverMariaDB
	default:
		return StorageDriver(strings.ToLower(strings.TrimSpace(s)))
	}
}

// IsFile reports whether the driver persists to a single document file
func (d StorageDriver) IsFile() bool {
	return d == DriverJSON || d == DriverYAML
}

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server struct {
		Port            string        `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		IdleTimeout     time.Duration `yaml:"idle_timeout"`
		// RateLimit is the sustained number of requests per second; 0 disables limiting
		RateLimit float64 `yaml:"rate_limit"`
		RateBurst int     `yaml:"rate_burst"`
	} `yaml:"server"`

	// Logging configuration
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	// Storage configuration
	Storage struct {
		Driver StorageDriver `yaml:"driver"`
		// Path is the document file for json/yaml and the database file for sqlite
		Path     string   `yaml:"path"`
		Database Database `yaml:"database"`
	} `yaml:"storage"`
}

// Database holds connection settings for networked SQL drivers
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`

	MaxOpenConns    int `yaml:"max_open_conns"`
	MaxIdleConns    int `yaml:"max_idle_conns"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime"` // in minutes
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "9000"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.IdleTimeout = 120 * time.Second
	cfg.Server.RateBurst = 20
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	cfg.Storage.Driver = DriverJSON
	cfg.Storage.Path = "./data/books.json"
	cfg.Storage.Database.SSLMode = "prefer"
	cfg.Storage.Database.MaxOpenConns = 25
	cfg.Storage.Database.MaxIdleConns = 5
	cfg.Storage.Database.ConnMaxLifetime = 60
	return cfg
}

// Load builds the configuration.
// Priority: 1) Environment variables, 2) Config file, 3) Defaults
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		fileCfg, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		mergeConfigs(cfg, fileCfg)
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used to start the service
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return &ConfigError{Field: "server.port", Msg: "must not be empty"}
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return &ConfigError{Field: "server.port", Msg: fmt.Sprintf("%q is not a number", c.Server.Port)}
	}
	if c.Server.RateLimit < 0 {
		return &ConfigError{Field: "server.rate_limit", Msg: "must not be negative"}
	}

	switch c.Storage.Driver {
	case DriverJSON, DriverYAML, DriverSQLite:
		if c.Storage.Path == "" {
			return &ConfigError{Field: "storage.path", Msg: fmt.Sprintf("is required for the %s driver", c.Storage.Driver)}
		}
	case DriverPostgreSQL, DriverMySQL, DriverMariaDB:
		db := c.Storage.Database
		if db.Host == "" {
			return &ConfigError{Field: "storage.database.host", Msg: fmt.Sprintf("is required for the %s driver", c.Storage.Driver)}
		}
		if db.Name == "" {
			return &ConfigError{Field: "storage.database.name", Msg: fmt.Sprintf("is required for the %s driver", c.Storage.Driver)}
		}
	default:
		return &ConfigError{Field: "storage.driver", Msg: fmt.Sprintf("unsupported driver %q", c.Storage.Driver)}
	}
	return nil
}

// DatabasePort returns the configured port or the driver default
func (c *Config) DatabasePort() int {
	if c.Storage.Database.Port > 0 {
		return c.Storage.Database.Port
	}
	switch c.Storage.Driver {
	case DriverPostgreSQL:
		return 5432
	case DriverMySQL, DriverMariaDB:
		return 3306
	default:
		return 0
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Msg
}

// loadFromEnv overrides cfg with any environment variables that are set
func loadFromEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	cfg.Server.ShutdownTimeout = getDurationFromEnv("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.RateLimit = getFloat64FromEnv("RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.RateBurst = getIntFromEnv("RATE_BURST", cfg.Server.RateBurst)

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = ParseStorageDriver(driver)
	}
	if path := os.Getenv("STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}

	db := &cfg.Storage.Database
	db.Host = getEnv("DATABASE_HOST", db.Host)
	db.Port = getIntFromEnv("DATABASE_PORT", db.Port)
	db.Name = getEnv("DATABASE_NAME", db.Name)
	db.User = getEnv("DATABASE_USER", db.User)
	db.Password = getEnv("DATABASE_PASSWORD", db.Password)
	db.SSLMode = getEnv("DATABASE_SSL_MODE", db.SSLMode)
}

// mergeConfigs copies every non-zero value of src over dst
func mergeConfigs(dst, src *Config) {
	if src.Server.Port != "" {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.ShutdownTimeout > 0 {
		dst.Server.ShutdownTimeout = src.Server.ShutdownTimeout
	}
	if src.Server.ReadTimeout > 0 {
		dst.Server.ReadTimeout = src.Server.ReadTimeout
	}
	if src.Server.WriteTimeout > 0 {
		dst.Server.WriteTimeout = src.Server.WriteTimeout
	}
	if src.Server.IdleTimeout > 0 {
		dst.Server.IdleTimeout = src.Server.IdleTimeout
	}
	if src.Server.RateLimit != 0 {
		dst.Server.RateLimit = src.Server.RateLimit
	}
	if src.Server.RateBurst > 0 {
		dst.Server.RateBurst = src.Server.RateBurst
	}

	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}

	if src.Storage.Driver != "" {
		dst.Storage.Driver = ParseStorageDriver(string(src.Storage.Driver))
	}
	if src.Storage.Path != "" {
		dst.Storage.Path = src.Storage.Path
	}

	s, d := src.Storage.Database, &dst.Storage.Database
	if s.Host != "" {
		d.Host = s.Host
	}
	if s.Port > 0 {
		d.Port = s.Port
	}
	if s.Name != "" {
		d.Name = s.Name
	}
	if s.User != "" {
		d.User = s.User
	}
	if s.Password != "" {
		d.Password = s.Password
	}
	if s.SSLMode != "" {
		d.SSLMode = s.SSLMode
	}
	if s.MaxOpenConns > 0 {
		d.MaxOpenConns = s.MaxOpenConns
	}
	if s.MaxIdleConns > 0 {
		d.MaxIdleConns = s.MaxIdleConns
	}
	if s.ConnMaxLifetime > 0 {
		d.ConnMaxLifetime = s.ConnMaxLifetime
	}
}

// Helper functions for environment variable parsing
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getIntFromEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fallback
		}
		return i
	}
	return fallback
}

func getFloat64FromEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fallback
		}
		return f
	}
	return fallback
}

func getDurationFromEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fallback
		}
		return d
	}
	return fallback
}
