package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Storage backends
const (
	BackendFile       = "file"
	BackendSQLite     = "sqlite"
	BackendClickHouse = "clickhouse"
	BackendMemory     = "memory"
)

// Config holds the application configuration
type Config struct {
	StorageBackend string

	// File backend
	DataDir string

	// SQLite backend
	SQLitePath string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	// Lending policy
	FinePerDay   decimal.Decimal
	MaxBooks     int
	BorrowPeriod int

	// Logging
	LogLevel  string
	LogFormat string // "console" or "json"
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile))
	switch config.StorageBackend {
	case BackendFile, BackendSQLite, BackendClickHouse, BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (want file, sqlite, clickhouse or memory)", config.StorageBackend)
	}

	config.DataDir = getEnv("DATA_DIR", "library_data")
	config.SQLitePath = getEnv("SQLITE_PATH", filepath.Join(config.DataDir, "library.db"))

	// ClickHouse configuration (required only for the clickhouse backend)
	if config.StorageBackend == BackendClickHouse {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when STORAGE_BACKEND is clickhouse")
		}

		portStr := os.Getenv("CLICKHOUSE_PORT")
		if portStr == "" {
			config.ClickHousePort = 9000 // Default ClickHouse native port
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
			}
			config.ClickHousePort = port
		}

		config.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "default")
		config.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	fine, err := decimal.NewFromString(getEnv("FINE_PER_DAY", "1.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINE_PER_DAY: %w", err)
	}
	if fine.IsNegative() {
		return nil, fmt.Errorf("FINE_PER_DAY must not be negative")
	}
	if !fine.Equal(fine.Round(2)) {
		return nil, fmt.Errorf("FINE_PER_DAY must be in whole cents, got %s", fine)
	}
	config.FinePerDay = fine

	if config.MaxBooks, err = positiveInt("MAX_BOOKS", 5); err != nil {
		return nil, err
	}
	if config.BorrowPeriod, err = positiveInt("BORROW_PERIOD_DAYS", 14); err != nil {
		return nil, err
	}

	config.LogLevel = getEnv("LOG_LEVEL", "info")
	config.LogFormat = getEnv("LOG_FORMAT", "console")
	if config.LogFormat != "console" && config.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want console or json)", config.LogFormat)
	}

	return config, nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func positiveInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}
