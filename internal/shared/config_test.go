package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./vocx.db" {
			t.Errorf("expected database path ./vocx.db, got %s", config.Database.Path)
		}

		if len(config.Source.Ranges) != 3 {
			t.Fatalf("expected 3 default source ranges, got %d", len(config.Source.Ranges))
		}

		want := []RangeConfig{
			{StartRow: 4, EndRow: 33, StartCol: 1, EndCol: 19},
			{StartRow: 37, EndRow: 66, StartCol: 1, EndCol: 19},
			{StartRow: 70, EndRow: 132, StartCol: 1, EndCol: 19},
		}
		for i, r := range want {
			if config.Source.Ranges[i] != r {
				t.Errorf("range %d = %+v, want %+v", i, config.Source.Ranges[i], r)
			}
		}

		headers := []string{"word", "pos", "meaning", "example", "similar word"}
		if len(config.Target.Headers) != len(headers) {
			t.Fatalf("expected %d headers, got %v", len(headers), config.Target.Headers)
		}
		for i, h := range headers {
			if config.Target.Headers[i] != h {
				t.Errorf("header %d = %q, want %q", i, config.Target.Headers[i], h)
			}
		}

		if config.Target.Kind != TargetSheets {
			t.Errorf("expected target kind %q, got %q", TargetSheets, config.Target.Kind)
		}

		if config.Pacing() != time.Second {
			t.Errorf("expected 1s pacing, got %v", config.Pacing())
		}

		if config.DictionaryTimeout() != 10*time.Second {
			t.Errorf("expected 10s dictionary timeout, got %v", config.DictionaryTimeout())
		}

		if config.Dictionary.BaseURL != "https://api.dictionaryapi.dev/api/v2/entries/en" {
			t.Errorf("unexpected dictionary base URL %s", config.Dictionary.BaseURL)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[source]
spreadsheet_id = "source-id"

[[source.ranges]]
start_row = 2
end_row = 5
start_col = 1
end_col = 3

[target]
kind = "sqlite"
spreadsheet_id = "target-id"

[sync]
pacing_ms = 0
ascii_only = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Source.SpreadsheetID != "source-id" {
			t.Errorf("expected source id source-id, got %s", config.Source.SpreadsheetID)
		}
		if len(config.Source.Ranges) != 1 {
			t.Fatalf("file ranges should replace defaults, got %d ranges", len(config.Source.Ranges))
		}
		if config.Target.Kind != TargetSQLite {
			t.Errorf("expected target kind sqlite, got %s", config.Target.Kind)
		}
		if len(config.Target.Headers) != 5 {
			t.Errorf("missing headers should fall back to defaults, got %v", config.Target.Headers)
		}
		if config.Pacing() != 0 {
			t.Errorf("expected zero pacing, got %v", config.Pacing())
		}
		if !config.Sync.ASCIIOnly {
			t.Error("expected ascii_only to be true")
		}
		if config.Database.Path != "./vocx.db" {
			t.Errorf("unset values should keep defaults, got database path %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig applies environment overrides", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[source]\nspreadsheet_id = \"from-file\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv("VOCX_SOURCE_SPREADSHEET_ID", "from-env")
		t.Setenv("VOCX_SYNC_PACING_MS", "250")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Source.SpreadsheetID != "from-env" {
			t.Errorf("expected env override, got %s", config.Source.SpreadsheetID)
		}
		if config.Pacing() != 250*time.Millisecond {
			t.Errorf("expected 250ms pacing, got %v", config.Pacing())
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		t.Run("missing file applies environment overrides", func(t *testing.T) {
			t.Setenv("VOCX_SOURCE_SPREADSHEET_ID", "from-env")
			t.Setenv("VOCX_TARGET_KIND", TargetSQLite)

			config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "config.toml"))
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if config.Source.SpreadsheetID != "from-env" || config.Target.Kind != TargetSQLite {
				t.Errorf("expected env overrides, got %+v", config)
			}
			if len(config.Source.Ranges) != len(DefaultConfig().Source.Ranges) {
				t.Errorf("expected default ranges, got %v", config.Source.Ranges)
			}
		})

		t.Run("existing file is loaded", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[source]\nspreadsheet_id = \"from-file\"\n"), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadConfigOrDefault(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if config.Source.SpreadsheetID != "from-file" {
				t.Errorf("expected file value, got %s", config.Source.SpreadsheetID)
			}
		})

		t.Run("unparseable file is an error", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[source\n"), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if _, err := LoadConfigOrDefault(configPath); err == nil {
				t.Error("expected parse error")
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "no ranges", mutate: func(c *Config) { c.Source.Ranges = nil }},
			{name: "inverted rows", mutate: func(c *Config) { c.Source.Ranges[0].EndRow = 1 }},
			{name: "zero column", mutate: func(c *Config) { c.Source.Ranges[1].StartCol = 0 }},
			{name: "no headers", mutate: func(c *Config) { c.Target.Headers = nil }},
			{name: "unknown target", mutate: func(c *Config) { c.Target.Kind = "excel" }},
			{name: "negative pacing", mutate: func(c *Config) { c.Sync.PacingMS = -1 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
				}
			})
		}
	})

	t.Run("TargetURL", func(t *testing.T) {
		config := DefaultConfig()
		config.Target.SpreadsheetID = "abc"
		if got := config.TargetURL(); got != "https://docs.google.com/spreadsheets/d/abc/edit" {
			t.Errorf("TargetURL() = %s", got)
		}

		config.Target.Kind = TargetSQLite
		if got := config.TargetURL(); got != "" {
			t.Errorf("expected empty URL for sqlite target, got %s", got)
		}
	})
}
