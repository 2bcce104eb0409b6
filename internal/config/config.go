package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	State    StateConfig
	OpenAI   OpenAIConfig
	Sheets   SheetsConfig
	Locale   LocaleConfig
	Auth     AuthConfig
	Jobs     JobsConfig
}

// DatabaseConfig holds primary-ledger sqlite settings. An empty Path means
// the primary ledger is not configured and the app runs in mirror-only mode.
type DatabaseConfig struct {
	Path           string
	MigrationsPath string `mapstructure:"migrations_path"`
}

// StateConfig holds the pending/undo state file. Always configured; this
// store must survive restarts.
type StateConfig struct {
	Path string
}

// OpenAIConfig holds oracle settings.
type OpenAIConfig struct {
	APIKeyEnv      string `mapstructure:"api_key_env"`
	APIKey         string `mapstructure:"api_key"`
	Model          string
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// SheetsConfig holds mirror-ledger settings. An empty SpreadsheetID means
// the mirror is not configured.
type SheetsConfig struct {
	CredentialsFile   string `mapstructure:"credentials_file"`
	CredentialsBase64 string `mapstructure:"credentials_base64"`
	SpreadsheetID     string `mapstructure:"spreadsheet_id"`
	Tab               string
}

// LocaleConfig holds presentation settings.
type LocaleConfig struct {
	Language string
}

// AuthConfig holds the single authorized requester identity.
type AuthConfig struct {
	RequesterID int64 `mapstructure:"requester_id"`
}

// JobsConfig holds background-job intervals, in seconds.
type JobsConfig struct {
	PendingTTLSeconds        int `mapstructure:"pending_ttl_seconds"`
	SweepIntervalSeconds     int `mapstructure:"sweep_interval_seconds"`
	SyncIntervalSeconds      int `mapstructure:"sync_interval_seconds"`
	RecurringIntervalSeconds int `mapstructure:"recurring_interval_seconds"`
}

// Load reads configuration from file and env. Env var overrides use prefix BUDZETNIK_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "budzetnik")

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir, "budzetnik.db"))
	v.SetDefault("database.migrations_path", "internal/database/migrations")
	v.SetDefault("state.path", filepath.Join(dataDir, "state.db"))
	v.SetDefault("openai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout_seconds", 8)
	v.SetDefault("sheets.credentials_file", "credentials.json")
	v.SetDefault("sheets.credentials_base64", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.tab", "Wydatki")
	v.SetDefault("locale.language", "pl")
	v.SetDefault("auth.requester_id", 0)
	v.SetDefault("jobs.pending_ttl_seconds", 3600)
	v.SetDefault("jobs.sweep_interval_seconds", 1800)
	v.SetDefault("jobs.sync_interval_seconds", 300)
	v.SetDefault("jobs.recurring_interval_seconds", 86400)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BUDZETNIK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "budzetnik"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BUDZETNIK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// ResolveAPIKey returns the oracle API key: env var first, then config file.
func (c Config) ResolveAPIKey() string {
	env := strings.TrimSpace(c.OpenAI.APIKeyEnv)
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return strings.TrimSpace(c.OpenAI.APIKey)
}
