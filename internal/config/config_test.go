package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"SQLITE_DB_PATH",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"CURRENCY_SYMBOL",
	"OVERVIEW_RECENT_LIMIT",
	"EXPENSE_CHART_LIMIT",
	"TOP_CATEGORIES_LIMIT",
	"EXPORT_DIR",
}

// clearEnv blanks every key Load reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(*Config)) Config {
		cfg := *Default()
		if mutate != nil {
			mutate(&cfg)
		}
		return cfg
	}

	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name:    "defaults are valid",
			config:  valid(nil),
			wantErr: false,
		},
		{
			name:    "json logging",
			config:  valid(func(c *Config) { c.LogFormat = "json"; c.LogLevel = "debug" }),
			wantErr: false,
		},
		{
			name:        "empty database path",
			config:      valid(func(c *Config) { c.SQLiteDBPath = " " }),
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "unknown log level",
			config:      valid(func(c *Config) { c.LogLevel = "loud" }),
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "unknown log format",
			config:      valid(func(c *Config) { c.LogFormat = "xml" }),
			wantErr:     true,
			errorString: "invalid log format 'xml': must be 'text' or 'json'",
		},
		{
			name:        "empty currency symbol",
			config:      valid(func(c *Config) { c.CurrencySymbol = "" }),
			wantErr:     true,
			errorString: "currency symbol cannot be empty",
		},
		{
			name:        "recent limit too small",
			config:      valid(func(c *Config) { c.OverviewRecentLimit = 0 }),
			wantErr:     true,
			errorString: "invalid overview recent limit 0: must be between 1 and 100",
		},
		{
			name:        "top categories limit too large",
			config:      valid(func(c *Config) { c.TopCategoriesLimit = 500 }),
			wantErr:     true,
			errorString: "invalid top categories limit 500: must be between 1 and 100",
		},
		{
			name:        "empty export directory",
			config:      valid(func(c *Config) { c.ExportDir = "" }),
			wantErr:     true,
			errorString: "export directory cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error for an empty config")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 7 {
		t.Errorf("expected 7 problems, got %d:\n%s", got, err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		clearEnv(t)
		cfg := Load()

		if cfg.SQLiteDBPath != "budget.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want budget.db", cfg.SQLiteDBPath)
		}
		if cfg.CurrencySymbol != "P" {
			t.Errorf("Load() CurrencySymbol = %v, want P", cfg.CurrencySymbol)
		}
		if cfg.OverviewRecentLimit != 3 || cfg.ExpenseChartLimit != 5 || cfg.TopCategoriesLimit != 5 {
			t.Errorf("Load() limits = %d/%d/%d, want 3/5/5",
				cfg.OverviewRecentLimit, cfg.ExpenseChartLimit, cfg.TopCategoriesLimit)
		}
		if cfg.LogFormat != "text" || cfg.LogLevel != "info" {
			t.Errorf("Load() logging = %s/%s, want info/text", cfg.LogLevel, cfg.LogFormat)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("CURRENCY_SYMBOL", "€")
		t.Setenv("TOP_CATEGORIES_LIMIT", "10")
		t.Setenv("LOG_FORMAT", "json")

		cfg := Load()

		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.CurrencySymbol != "€" {
			t.Errorf("Load() CurrencySymbol = %v, want €", cfg.CurrencySymbol)
		}
		if cfg.TopCategoriesLimit != 10 {
			t.Errorf("Load() TopCategoriesLimit = %v, want 10", cfg.TopCategoriesLimit)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
	})

	t.Run("invalid integer is reported by Validate", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EXPENSE_CHART_LIMIT", "many")

		cfg := Load()
		if cfg.ExpenseChartLimit != 5 {
			t.Errorf("Load() ExpenseChartLimit = %v, want 5", cfg.ExpenseChartLimit)
		}
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "invalid EXPENSE_CHART_LIMIT 'many'") {
			t.Errorf("Validate() = %v, want malformed EXPENSE_CHART_LIMIT reported", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"budgetpal.toml": "db_path = \"data/toml.db\"\ncurrency_symbol = \"$\"\ntop_categories_limit = 3\n",
		"budgetpal.yaml": "db_path: data/yaml.db\ncurrency_symbol: $\ntop_categories_limit: 3\n",
		"budgetpal.json": `{"db_path": "data/json.db", "currency_symbol": "$", "top_categories_limit": 3}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(tmpDir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}

			cfg, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}

			ext := strings.TrimPrefix(filepath.Ext(name), ".")
			if want := "data/" + ext + ".db"; cfg.SQLiteDBPath != want {
				t.Errorf("SQLiteDBPath = %v, want %v", cfg.SQLiteDBPath, want)
			}
			if cfg.CurrencySymbol != "$" || cfg.TopCategoriesLimit != 3 {
				t.Errorf("file values not applied: %+v", cfg)
			}
			if cfg.OverviewRecentLimit != 3 || cfg.ExportDir != "." {
				t.Errorf("keys absent from the file should keep defaults: %+v", cfg)
			}
		})
	}

	t.Run("environment overrides file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SQLITE_DB_PATH", "env.db")

		cfg, err := LoadFile(filepath.Join(tmpDir, "budgetpal.json"))
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.SQLiteDBPath != "env.db" {
			t.Errorf("SQLiteDBPath = %v, want env.db", cfg.SQLiteDBPath)
		}
		if cfg.CurrencySymbol != "$" {
			t.Errorf("CurrencySymbol = %v, want $", cfg.CurrencySymbol)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(tmpDir, "budgetpal.ini")
		os.WriteFile(path, []byte("db_path=x"), 0644)
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for .ini file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(tmpDir, "absent.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.json")
		os.WriteFile(path, []byte("{"), 0644)
		if _, err := LoadFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
