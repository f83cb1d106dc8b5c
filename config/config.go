package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL      = errors.New("catalog.base_url is required")
	ErrInvalidPageCount    = errors.New("catalog.page_count must be at least 1")
	ErrInvalidDelay        = errors.New("catalog.page_delay_ms must be non-negative")
	ErrInvalidRetries      = errors.New("fetch.max_retries must be at least 1")
	ErrInvalidFetchMode    = errors.New("fetch.mode must be 'http' or 'chrome'")
	ErrInvalidExchangeRate = errors.New("transform.exchange_rate must be positive")
	ErrInvalidDBDriver     = errors.New("database.driver must be 'postgres' or 'sqlite3'")
)

// Fetch modes
const (
	FetchModeHTTP   = "http"
	FetchModeChrome = "chrome"
)

// Config represents the application configuration
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Transform TransformConfig `yaml:"transform"`
	Output    OutputConfig    `yaml:"output"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`

	// Memcache holds the rate-limit block marker; empty disables it
	MemcacheAddr string `yaml:"memcache_addr"`

	// RunIntervalSeconds repeats the run; 0 runs once
	RunIntervalSeconds int `yaml:"run_interval_seconds"`

	LogFileEnabled bool   `yaml:"log_file_enabled"`
	Environment    string `yaml:"environment"`
}

// CatalogConfig describes the paginated catalog to walk
type CatalogConfig struct {
	BaseURL     string `yaml:"base_url"`
	PageCount   int    `yaml:"page_count"`
	PageDelayMs int    `yaml:"page_delay_ms"`
}

// FetchConfig configures the page fetcher
type FetchConfig struct {
	Mode                  string `yaml:"mode"`
	MaxRetries            int    `yaml:"max_retries"`
	RetryDelayMs          int    `yaml:"retry_delay_ms"`
	TimeoutSeconds        int    `yaml:"timeout_seconds"`
	ChromeBin             string `yaml:"chrome_bin"`
	RespectRobots         bool   `yaml:"respect_robots"`
	RateLimitBlockSeconds int    `yaml:"rate_limit_block_seconds"`
}

// TransformConfig configures the normalization pipeline
type TransformConfig struct {
	ExchangeRate float64 `yaml:"exchange_rate"`
}

// OutputConfig holds the flat-file destinations
type OutputConfig struct {
	RawCSVPath   string `yaml:"raw_csv_path"`
	CleanCSVPath string `yaml:"clean_csv_path"`
	CSVPath      string `yaml:"csv_path"`
}

// SheetsConfig configures the spreadsheet sink; empty ID skips it
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	SheetName       string `yaml:"sheet_name"`
}

// DatabaseConfig configures the relational sink; empty DSN skips it
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

// RedisConfig configures the stream sink; empty Addr skips it
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	DB              int    `yaml:"db"`
	Stream          string `yaml:"stream"`
	StreamMaxLength int    `yaml:"stream_max_length"`
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:     getEnv("CATALOG_BASE_URL", "https://fashion-studio.dicoding.dev"),
			PageCount:   getEnvInt("CATALOG_PAGE_COUNT", 50),
			PageDelayMs: getEnvInt("CATALOG_PAGE_DELAY_MS", 500),
		},
		Fetch: FetchConfig{
			Mode:                  getEnv("FETCH_MODE", FetchModeHTTP),
			MaxRetries:            getEnvInt("FETCH_MAX_RETRIES", 3),
			RetryDelayMs:          getEnvInt("FETCH_RETRY_DELAY_MS", 2000),
			TimeoutSeconds:        getEnvInt("FETCH_TIMEOUT_SECONDS", 10),
			ChromeBin:             getEnv("CHROME_BIN", ""),
			RespectRobots:         getEnvBool("RESPECT_ROBOTS", false),
			RateLimitBlockSeconds: getEnvInt("RATE_LIMIT_BLOCK_SECONDS", 300),
		},
		Transform: TransformConfig{
			ExchangeRate: getEnvFloat("EXCHANGE_RATE", 16000),
		},
		Output: OutputConfig{
			RawCSVPath:   getEnv("RAW_CSV_PATH", "raw_products.csv"),
			CleanCSVPath: getEnv("CLEAN_CSV_PATH", "clean_products.csv"),
			CSVPath:      getEnv("CSV_OUTPUT_PATH", "products.csv"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("GOOGLE_SHEETS_ID", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "google-sheets-api.json"),
			SheetName:       getEnv("GOOGLE_SHEET_NAME", "Products"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "postgres"),
			DSN:    getEnv("DB_DSN", ""),
			Table:  getEnv("DB_TABLE", "products"),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			Stream:          getEnv("REDIS_STREAM", "products"),
			StreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 10000),
		},
		MemcacheAddr:       getEnv("MEMCACHE_ADDR", ""),
		RunIntervalSeconds: getEnvInt("RUN_INTERVAL_SECONDS", 0),
		LogFileEnabled:     getEnvBool("LOG_FILE_ENABLED", true),
		Environment:        getEnv("ETL_ENVIRONMENT", "development"),
	}
}

// Load reads the environment and then applies the YAML file named by
// ETL_CONFIG_FILE, if set.
func Load() (*Config, error) {
	cfg := LoadConfig()
	if path := os.Getenv("ETL_CONFIG_FILE"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ApplyFile overlays the keys present in a YAML file onto c
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for values the run cannot work with
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Catalog.PageCount < 1 {
		return ErrInvalidPageCount
	}
	if c.Catalog.PageDelayMs < 0 {
		return ErrInvalidDelay
	}
	if c.Fetch.MaxRetries < 1 {
		return ErrInvalidRetries
	}
	if c.Fetch.Mode != FetchModeHTTP && c.Fetch.Mode != FetchModeChrome {
		return ErrInvalidFetchMode
	}
	if c.Transform.ExchangeRate <= 0 {
		return ErrInvalidExchangeRate
	}
	if c.Database.DSN != "" && c.Database.Driver != "postgres" && c.Database.Driver != "sqlite3" {
		return ErrInvalidDBDriver
	}
	return nil
}

// PageDelay returns the pause between page fetches
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.Catalog.PageDelayMs) * time.Millisecond
}

// RetryDelay returns the pause between fetch attempts
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Fetch.RetryDelayMs) * time.Millisecond
}

// FetchTimeout returns the per-request timeout
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// RateLimitBlock returns how long fetches stay blocked after a 429
func (c *Config) RateLimitBlock() time.Duration {
	return time.Duration(c.Fetch.RateLimitBlockSeconds) * time.Second
}

// RunInterval returns the pause between runs
func (c *Config) RunInterval() time.Duration {
	return time.Duration(c.RunIntervalSeconds) * time.Second
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
