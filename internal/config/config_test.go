package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesTemplateOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// First run returns the built-in defaults and leaves an editable
	// template behind.
	if cfg.Engine.SampleCount != 240 {
		t.Errorf("sample count = %d, want default 240", cfg.Engine.SampleCount)
	}
	if cfg.Engine.RangeFraction != 0.35 {
		t.Errorf("range fraction = %g, want default 0.35", cfg.Engine.RangeFraction)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config template not created: %v", err)
	}

	// Second run reads the generated template without error.
	if _, err := Load(dir); err != nil {
		t.Fatalf("Load after template creation: %v", err)
	}
}

func TestLoadReadsValuesFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[engine]
risk_free_rate = 0.07
sample_count = 400
range_fraction = 0.5

[server]
addr = "0.0.0.0:9000"

[logging]
level = "debug"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.RiskFreeRate != 0.07 {
		t.Errorf("risk free rate = %g, want 0.07", cfg.Engine.RiskFreeRate)
	}
	if cfg.Engine.SampleCount != 400 {
		t.Errorf("sample count = %d, want 400", cfg.Engine.SampleCount)
	}
	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("server addr = %q, want 0.0.0.0:9000", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[engine]
sample_count = 1
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("Load accepted sample_count below the minimum")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLOWMIND_RISK_FREE_RATE", "0.09")
	t.Setenv("FLOWMIND_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("FLOWMIND_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.RiskFreeRate != 0.09 {
		t.Errorf("risk free rate = %g, want env override 0.09", cfg.Engine.RiskFreeRate)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("server addr = %q, want env override", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want env override warn", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := Default()
	bad.Engine.RangeFraction = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("accepted range fraction outside (0,1)")
	}

	bad = Default()
	bad.Server.Addr = ""
	if err := bad.Validate(); err == nil {
		t.Error("accepted empty server address")
	}

	bad = Default()
	bad.Logging.Level = "verbose"
	if err := bad.Validate(); err == nil {
		t.Error("accepted unknown log level")
	}
}
