package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesTemplatesOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(dir); err == nil {
		t.Fatal("first load should fail after writing template files")
	}

	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be created: %v", name, err)
		}
	}

	// Credentials must not be world-readable.
	info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credentials.toml permissions = %o, want 0600", perm)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), "[analysis]\n")
	writeFile(t, filepath.Join(dir, "credentials.toml"), "")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Analysis.LookbackDays != 120 {
		t.Errorf("LookbackDays = %d, want 120", cfg.Analysis.LookbackDays)
	}
	if cfg.Analysis.PatternWindow != 10 {
		t.Errorf("PatternWindow = %d, want 10", cfg.Analysis.PatternWindow)
	}
	if cfg.Analysis.RecentCloses != 30 {
		t.Errorf("RecentCloses = %d, want 30", cfg.Analysis.RecentCloses)
	}
	if cfg.Advisor.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", cfg.Advisor.Model)
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path should default to a concrete path")
	}
}

func TestLoad_FileValuesAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), `
[analysis]
lookback_days = 200

[advisor]
model = "gpt-4o"
`)
	writeFile(t, filepath.Join(dir, "credentials.toml"), `
[polygon]
api_key = "file-key"
`)

	t.Setenv("POLYGON_API_KEY", "env-key")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Analysis.LookbackDays != 200 {
		t.Errorf("LookbackDays = %d, want 200 from file", cfg.Analysis.LookbackDays)
	}
	if cfg.Credentials.Polygon.APIKey != "env-key" {
		t.Errorf("Polygon key = %q, env should win over file", cfg.Credentials.Polygon.APIKey)
	}
	if cfg.Advisor.Model != "gpt-4.1-mini" {
		t.Errorf("Model = %q, env should win over file", cfg.Advisor.Model)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			LookbackDays:  120,
			PatternWindow: 10,
			RecentCloses:  30,
			ValuationDays: 2,
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.Analysis.PatternWindow = 2
	if err := cfg.Validate(); err == nil {
		t.Error("pattern window below 3 should be rejected")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
