package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"budgetpal/internal/log"
)

type Config struct {
	// Database
	SQLiteDBPath string

	// Logging
	LogLevel  string
	LogFormat string

	// Presentation
	CurrencySymbol      string
	OverviewRecentLimit int
	ExpenseChartLimit   int
	TopCategoriesLimit  int

	// Export
	ExportDir string

	// malformed environment values, reported by Validate
	envErrors []string
}

// fileConfig mirrors Config for config files. Pointer fields tell a key that
// is absent from one explicitly set to its zero value.
type fileConfig struct {
	SQLiteDBPath        *string `toml:"db_path" yaml:"db_path" json:"db_path"`
	LogLevel            *string `toml:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat           *string `toml:"log_format" yaml:"log_format" json:"log_format"`
	CurrencySymbol      *string `toml:"currency_symbol" yaml:"currency_symbol" json:"currency_symbol"`
	OverviewRecentLimit *int    `toml:"overview_recent_limit" yaml:"overview_recent_limit" json:"overview_recent_limit"`
	ExpenseChartLimit   *int    `toml:"expense_chart_limit" yaml:"expense_chart_limit" json:"expense_chart_limit"`
	TopCategoriesLimit  *int    `toml:"top_categories_limit" yaml:"top_categories_limit" json:"top_categories_limit"`
	ExportDir           *string `toml:"export_dir" yaml:"export_dir" json:"export_dir"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		SQLiteDBPath:        "budget.db",
		LogLevel:            "info",
		LogFormat:           log.FormatText,
		CurrencySymbol:      "P",
		OverviewRecentLimit: 3,
		ExpenseChartLimit:   5,
		TopCategoriesLimit:  5,
		ExportDir:           ".",
	}
}

// Load returns the defaults overridden by environment variables.
func Load() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a TOML, YAML or JSON file (chosen by extension) over the
// defaults, then applies environment variables on top.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".json":
		err = json.Unmarshal(data, &fc)
	default:
		return nil, fmt.Errorf("unsupported config file format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	cfg.applyEnv()
	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) {
	setString(&cfg.SQLiteDBPath, fc.SQLiteDBPath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.CurrencySymbol, fc.CurrencySymbol)
	setInt(&cfg.OverviewRecentLimit, fc.OverviewRecentLimit)
	setInt(&cfg.ExpenseChartLimit, fc.ExpenseChartLimit)
	setInt(&cfg.TopCategoriesLimit, fc.TopCategoriesLimit)
	setString(&cfg.ExportDir, fc.ExportDir)
}

func (c *Config) applyEnv() {
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.CurrencySymbol = getEnv("CURRENCY_SYMBOL", c.CurrencySymbol)
	c.OverviewRecentLimit = c.getEnvInt("OVERVIEW_RECENT_LIMIT", c.OverviewRecentLimit)
	c.ExpenseChartLimit = c.getEnvInt("EXPENSE_CHART_LIMIT", c.ExpenseChartLimit)
	c.TopCategoriesLimit = c.getEnvInt("TOP_CATEGORIES_LIMIT", c.TopCategoriesLimit)
	c.ExportDir = getEnv("EXPORT_DIR", c.ExportDir)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	errors := append([]string(nil), c.envErrors...)

	if strings.TrimSpace(c.SQLiteDBPath) == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.LogFormat != log.FormatText && c.LogFormat != log.FormatJSON {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be '%s' or '%s'", c.LogFormat, log.FormatText, log.FormatJSON))
	}

	if c.CurrencySymbol == "" {
		errors = append(errors, "currency symbol cannot be empty")
	}

	limits := []struct {
		name  string
		value int
	}{
		{"overview recent limit", c.OverviewRecentLimit},
		{"expense chart limit", c.ExpenseChartLimit},
		{"top categories limit", c.TopCategoriesLimit},
	}
	for _, l := range limits {
		if l.value < 1 || l.value > 100 {
			errors = append(errors, fmt.Sprintf("invalid %s %d: must be between 1 and 100", l.name, l.value))
		}
	}

	if strings.TrimSpace(c.ExportDir) == "" {
		errors = append(errors, "export directory cannot be empty")
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer variable. A malformed value keeps defaultValue
// and is recorded for Validate.
func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		c.envErrors = append(c.envErrors, fmt.Sprintf("invalid %s '%s': must be an integer", key, value))
		return defaultValue
	}
	return i
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
