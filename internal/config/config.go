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
	Backend BackendConfig
	UI      UIConfig
}

// BackendConfig selects where data lives: the embedded sqlite store or
// the hosted backend.
type BackendConfig struct {
	Mode      string `mapstructure:"mode"` // "local" or "remote"
	LocalPath string `mapstructure:"local_path"`
	RemoteURL string `mapstructure:"remote_url"`
	APIKey    string `mapstructure:"api_key"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DateFormat     string `mapstructure:"date_format"`
	Timezone       string `mapstructure:"timezone"`
	ExportDir      string `mapstructure:"export_dir"`
}

// Load reads configuration from file and env. Env var overrides use
// prefix KHATA_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("backend.mode", "local")
	v.SetDefault("backend.local_path", filepath.Join(os.Getenv("HOME"), ".local", "share", "khata", "khata.db"))
	v.SetDefault("backend.remote_url", "")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("ui.currency_symbol", "₹")
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.timezone", "Asia/Kolkata")
	v.SetDefault("ui.export_dir", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("KHATA_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "khata"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("KHATA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Backend.Mode != "local" && c.Backend.Mode != "remote" {
		return Config{}, fmt.Errorf("backend.mode must be local or remote, got %q", c.Backend.Mode)
	}
	if c.Backend.Mode == "remote" && c.Backend.RemoteURL == "" {
		return Config{}, fmt.Errorf("backend.remote_url required when backend.mode is remote")
	}
	return c, nil
}

// Path is the config file location in effect: the KHATA_CONFIG override
// or the default under ~/.config.
func Path() string {
	if p := os.Getenv("KHATA_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "khata", "config.toml")
}

// Save writes the provided config to disk, creating the config directory
// if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("backend.mode", cfg.Backend.Mode)
	v.Set("backend.local_path", cfg.Backend.LocalPath)
	v.Set("backend.remote_url", cfg.Backend.RemoteURL)
	v.Set("backend.api_key", cfg.Backend.APIKey)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.export_dir", cfg.UI.ExportDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
