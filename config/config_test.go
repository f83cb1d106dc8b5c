package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://fashion-studio.dicoding.dev", config.Catalog.BaseURL)
	assert.Equal(t, 50, config.Catalog.PageCount)
	assert.Equal(t, 500*time.Millisecond, config.PageDelay())
	assert.Equal(t, 3, config.Fetch.MaxRetries)
	assert.Equal(t, 2*time.Second, config.RetryDelay())
	assert.Equal(t, 16000.0, config.Transform.ExchangeRate)
	assert.Equal(t, "products.csv", config.Output.CSVPath)
	assert.Equal(t, "", config.Database.DSN)
	assert.True(t, config.LogFileEnabled)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("CATALOG_BASE_URL", "http://localhost:8080")
	t.Setenv("CATALOG_PAGE_COUNT", "3")
	t.Setenv("CATALOG_PAGE_DELAY_MS", "0")
	t.Setenv("EXCHANGE_RATE", "15000")
	t.Setenv("RESPECT_ROBOTS", "true")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", "file:products.db")

	config = LoadConfig()
	assert.Equal(t, "http://localhost:8080", config.Catalog.BaseURL)
	assert.Equal(t, 3, config.Catalog.PageCount)
	assert.Equal(t, time.Duration(0), config.PageDelay())
	assert.Equal(t, 15000.0, config.Transform.ExchangeRate)
	assert.True(t, config.Fetch.RespectRobots)
	assert.Equal(t, "sqlite3", config.Database.Driver)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CATALOG_PAGE_COUNT", "many")
	t.Setenv("EXCHANGE_RATE", "lots")

	config := LoadConfig()
	assert.Equal(t, 50, config.Catalog.PageCount)
	assert.Equal(t, 16000.0, config.Transform.ExchangeRate)
}

func TestApplyFileOverlaysOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etl.yaml")
	content := `
catalog:
  page_count: 5
redis:
  addr: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("ETL_CONFIG_FILE", path)

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, config.Catalog.PageCount)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.Equal(t, "products", config.Redis.Stream)
	assert.Equal(t, "https://fashion-studio.dicoding.dev", config.Catalog.BaseURL)
}

func TestApplyFileErrors(t *testing.T) {
	config := LoadConfig()
	assert.Error(t, config.ApplyFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: [unclosed"), 0644))
	assert.Error(t, config.ApplyFile(path))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"missing base url", func(c *Config) { c.Catalog.BaseURL = "" }, ErrMissingBaseURL},
		{"zero pages", func(c *Config) { c.Catalog.PageCount = 0 }, ErrInvalidPageCount},
		{"negative delay", func(c *Config) { c.Catalog.PageDelayMs = -1 }, ErrInvalidDelay},
		{"zero retries", func(c *Config) { c.Fetch.MaxRetries = 0 }, ErrInvalidRetries},
		{"bad fetch mode", func(c *Config) { c.Fetch.Mode = "ftp" }, ErrInvalidFetchMode},
		{"zero exchange rate", func(c *Config) { c.Transform.ExchangeRate = 0 }, ErrInvalidExchangeRate},
		{"bad driver", func(c *Config) { c.Database.DSN = "x"; c.Database.Driver = "mysql" }, ErrInvalidDBDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := LoadConfig()
			tt.modify(config)
			assert.ErrorIs(t, config.Validate(), tt.want)
		})
	}
}
