// Package config provides configuration management for the stock analyzer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Analysis    AnalysisConfig `mapstructure:"analysis"`
	Advisor     AdvisorConfig  `mapstructure:"advisor"`
	Database    DatabaseConfig `mapstructure:"database"`
	UI          UIConfig       `mapstructure:"ui"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// AnalysisConfig holds analysis-related configuration.
type AnalysisConfig struct {
	LookbackDays   int `mapstructure:"lookback_days"`   // daily bars fetched per analysis
	PatternWindow  int `mapstructure:"pattern_window"`  // bars fed to the candlestick classifier
	RecentCloses   int `mapstructure:"recent_closes"`   // closing prices returned with a result
	ValuationDays  int `mapstructure:"valuation_days"`  // sessions fetched for current-price lookups
}

// AdvisorConfig holds AI advisor configuration.
type AdvisorConfig struct {
	Model string `mapstructure:"model"`
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	Polygon PolygonCredentials `mapstructure:"polygon"`
	OpenAI  OpenAICredentials  `mapstructure:"openai"`
}

// PolygonCredentials holds Polygon.io API credentials.
type PolygonCredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stock-analyzer"
	}
	return filepath.Join(home, ".config", "stock-analyzer")
}

// DefaultDatabasePath returns the default SQLite database path.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "portfolio.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		// Lay down the credentials template too, so a first run
		// scaffolds both files at once.
		if _, statErr := os.Stat(filepath.Join(configDir, "credentials.toml")); os.IsNotExist(statErr) {
			_ = createTemplateCredentials(configDir)
		}
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("analysis.lookback_days", 120)
	v.SetDefault("analysis.pattern_window", 10)
	v.SetDefault("analysis.recent_closes", 30)
	v.SetDefault("analysis.valuation_days", 2)
	v.SetDefault("advisor.model", "gpt-4o-mini")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Credentials.Polygon.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Advisor.Model = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}
	if cfg.Advisor.Model == "" {
		cfg.Advisor.Model = "gpt-4o-mini"
	}
	if cfg.Analysis.LookbackDays == 0 {
		cfg.Analysis.LookbackDays = 120
	}
	if cfg.Analysis.PatternWindow == 0 {
		cfg.Analysis.PatternWindow = 10
	}
	if cfg.Analysis.RecentCloses == 0 {
		cfg.Analysis.RecentCloses = 30
	}
	if cfg.Analysis.ValuationDays == 0 {
		cfg.Analysis.ValuationDays = 2
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.LookbackDays < 1 {
		return fmt.Errorf("analysis.lookback_days must be positive")
	}
	if c.Analysis.PatternWindow < 3 {
		return fmt.Errorf("analysis.pattern_window must be at least 3")
	}
	if c.Analysis.RecentCloses < 1 {
		return fmt.Errorf("analysis.recent_closes must be positive")
	}
	if c.Analysis.ValuationDays < 1 {
		return fmt.Errorf("analysis.valuation_days must be positive")
	}
	return nil
}
