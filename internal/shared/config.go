package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Target store kinds.
const (
	TargetSheets = "sheets"
	TargetSQLite = "sqlite"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Source      SourceConfig      `toml:"source"`
	Target      TargetConfig      `toml:"target"`
	Dictionary  DictionaryConfig  `toml:"dictionary"`
	Sync        SyncConfig        `toml:"sync"`
	Sheets      SheetsConfig      `toml:"sheets"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig points at a service account key used for the Sheets API.
type GoogleConfig struct {
	ServiceAccountFile string `toml:"service_account_file" env:"VOCX_GOOGLE_SERVICE_ACCOUNT_FILE"`
}

// SourceConfig describes the read-only spreadsheet words are extracted from.
type SourceConfig struct {
	SpreadsheetID string        `toml:"spreadsheet_id" env:"VOCX_SOURCE_SPREADSHEET_ID"`
	Sheet         string        `toml:"sheet" env:"VOCX_SOURCE_SHEET"`
	Ranges        []RangeConfig `toml:"ranges"`
}

// RangeConfig is a 1-based, inclusive rectangle of cells.
type RangeConfig struct {
	StartRow int `toml:"start_row"`
	EndRow   int `toml:"end_row"`
	StartCol int `toml:"start_col"`
	EndCol   int `toml:"end_col"`
}

// TargetConfig describes where enriched records are written.
type TargetConfig struct {
	Kind          string   `toml:"kind" env:"VOCX_TARGET_KIND"`
	SpreadsheetID string   `toml:"spreadsheet_id" env:"VOCX_TARGET_SPREADSHEET_ID"`
	Sheet         string   `toml:"sheet" env:"VOCX_TARGET_SHEET"`
	Headers       []string `toml:"headers"`
}

// DictionaryConfig contains dictionary lookup settings.
type DictionaryConfig struct {
	BaseURL        string `toml:"base_url" env:"VOCX_DICTIONARY_BASE_URL"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"VOCX_DICTIONARY_TIMEOUT_SECONDS"`
}

// SyncConfig contains settings for the sync loop.
type SyncConfig struct {
	PacingMS      int  `toml:"pacing_ms" env:"VOCX_SYNC_PACING_MS"`
	ProgressEvery int  `toml:"progress_every" env:"VOCX_SYNC_PROGRESS_EVERY"`
	ASCIIOnly     bool `toml:"ascii_only" env:"VOCX_SYNC_ASCII_ONLY"`
}

// SheetsConfig contains Google Sheets API client settings.
type SheetsConfig struct {
	BaseURL           string  `toml:"base_url" env:"VOCX_SHEETS_BASE_URL"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"VOCX_SHEETS_REQUESTS_PER_SECOND"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"VOCX_DATABASE_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep their defaults; VOCX_* environment variables are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	// Ranges and headers replace the defaults wholesale when present in the file.
	config.Source.Ranges = nil
	config.Target.Headers = nil
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	defaults := DefaultConfig()
	if len(config.Source.Ranges) == 0 {
		config.Source.Ranges = defaults.Source.Ranges
	}
	if len(config.Target.Headers) == 0 {
		config.Target.Headers = defaults.Target.Headers
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault loads path when it exists, and otherwise returns the defaults with VOCX_* overrides applied.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			return nil, err
		}
		return config, nil
	}
	return LoadConfig(path)
}

// ApplyEnv overrides config fields from their VOCX_* environment variables. Unset variables leave fields alone.
func ApplyEnv(config *Config) error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the settings a sync run depends on.
func (c *Config) Validate() error {
	if len(c.Source.Ranges) == 0 {
		return fmt.Errorf("%w: at least one source range is required", ErrInvalidConfig)
	}
	for i, r := range c.Source.Ranges {
		if r.StartRow < 1 || r.StartCol < 1 || r.EndRow < r.StartRow || r.EndCol < r.StartCol {
			return fmt.Errorf("%w: source range %d is not a valid rectangle (%+v)", ErrInvalidConfig, i+1, r)
		}
	}
	if len(c.Target.Headers) == 0 {
		return fmt.Errorf("%w: target headers must not be empty", ErrInvalidConfig)
	}
	switch c.Target.Kind {
	case TargetSheets, TargetSQLite:
	default:
		return fmt.Errorf("%w: target kind %q (must be %q or %q)", ErrInvalidConfig, c.Target.Kind, TargetSheets, TargetSQLite)
	}
	if c.Sync.PacingMS < 0 {
		return fmt.Errorf("%w: sync.pacing_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Pacing returns the delay between dictionary lookups.
func (c *Config) Pacing() time.Duration {
	return time.Duration(c.Sync.PacingMS) * time.Millisecond
}

// DictionaryTimeout returns the per-request dictionary timeout, defaulting to 10 seconds.
func (c *Config) DictionaryTimeout() time.Duration {
	if c.Dictionary.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Dictionary.TimeoutSeconds) * time.Second
}

// TargetURL returns the browser URL of the target spreadsheet, or "" for non-sheets targets.
func (c *Config) TargetURL() string {
	if c.Target.Kind != TargetSheets || c.Target.SpreadsheetID == "" {
		return ""
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", c.Target.SpreadsheetID)
}
