package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		ShutdownTimeout: 10 * time.Second,
		DataBackend:     BackendMemory,
		LogLevel:        "info",
		WeekCacheTTL:    time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "redis" },
			wantErr:     true,
			errorString: "invalid data backend 'redis': must be one of [memory file sqlite]",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = BackendSQLite
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "file backend missing path",
			mutate: func(c *Config) {
				c.DataBackend = BackendFile
				c.DataFilePath = ""
			},
			wantErr:     true,
			errorString: "data file path cannot be empty when using file backend",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "chatty" },
			wantErr:     true,
			errorString: "invalid log level 'chatty'",
		},
		{
			name:        "week cache TTL too short",
			mutate:      func(c *Config) { c.WeekCacheTTL = time.Second },
			wantErr:     true,
			errorString: "invalid week cache TTL 1s: must be at least 1 minute",
		},
		{
			name:        "shutdown timeout too long",
			mutate:      func(c *Config) { c.ShutdownTimeout = time.Hour },
			wantErr:     true,
			errorString: "invalid shutdown timeout 1h0m0s: must be at most 5 minutes",
		},
		{
			name: "multiple errors",
			mutate: func(c *Config) {
				c.Port = "0"
				c.DataBackend = "nope"
			},
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535\n- invalid data backend 'nope'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Expected error to contain '%s', got: %s", tt.errorString, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestConfig_ValidateCreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	cfg := validConfig()
	cfg.DataBackend = BackendSQLite
	cfg.SQLiteDBPath = filepath.Join(dir, "comida.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Expected directory %s to be created: %v", dir, err)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "DATA_FILE_PATH", "LOG_LEVEL", "WEEK_CACHE_TTL", "SHUTDOWN_TIMEOUT"}

	t.Run("defaults", func(t *testing.T) {
		for _, key := range keys {
			t.Setenv(key, "")
		}
		cfg := Load()
		if cfg.Port != "8080" {
			t.Errorf("Expected default port 8080, got %s", cfg.Port)
		}
		if cfg.DataBackend != BackendSQLite {
			t.Errorf("Expected default backend sqlite, got %s", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/comida.db" {
			t.Errorf("Unexpected default SQLite path %s", cfg.SQLiteDBPath)
		}
		if cfg.WeekCacheTTL != 24*time.Hour {
			t.Errorf("Expected default TTL 24h, got %v", cfg.WeekCacheTTL)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Expected default shutdown timeout 10s, got %v", cfg.ShutdownTimeout)
		}
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "file")
		t.Setenv("DATA_FILE_PATH", "/tmp/comida.json")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("WEEK_CACHE_TTL", "2h")
		t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

		cfg := Load()
		if cfg.Port != "9090" || cfg.DataBackend != BackendFile || cfg.DataFilePath != "/tmp/comida.json" {
			t.Errorf("Unexpected config: %+v", cfg)
		}
		if cfg.LogLevel != "debug" || cfg.WeekCacheTTL != 2*time.Hour {
			t.Errorf("Unexpected config: %+v", cfg)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("Invalid duration should fall back to default, got %v", cfg.ShutdownTimeout)
		}
	})
}
