package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stock Analyzer Configuration

[analysis]
# Calendar days of daily bars fetched per analysis
lookback_days = 120
# Number of recent bars fed to the candlestick classifier
pattern_window = 10
# Closing prices returned with an analysis result
recent_closes = 30
# Sessions fetched when looking up a current price for valuation
valuation_days = 2

[advisor]
# OpenAI model used for the recommendation narrative
model = "gpt-4o-mini"

[database]
# SQLite database path (defaults to <config dir>/portfolio.db)
path = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

const credentialsTemplate = `# Stock Analyzer Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[polygon]
api_key = ""

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Restricted permissions, the file carries API keys
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
