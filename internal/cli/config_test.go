package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
format = "png"
refinement = 4
scale = 2.0
no_cache = true
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Format != "png" {
		t.Errorf("Format = %q, want png", cfg.Format)
	}
	if cfg.Refinement != 4 {
		t.Errorf("Refinement = %d, want 4", cfg.Refinement)
	}
	if cfg.Scale != 2.0 {
		t.Errorf("Scale = %v, want 2.0", cfg.Scale)
	}
	if !cfg.NoCache {
		t.Error("NoCache should be true")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `format = "svg"`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Format != "svg" {
		t.Errorf("Format = %q, want svg", cfg.Format)
	}
	if cfg.Refinement != 0 || cfg.Scale != 0 || cfg.NoCache {
		t.Error("unset keys should stay zero")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config should not error, got %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("missing config should yield zero config, got %+v", cfg)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfig(t, `format = `)

	if _, err := loadConfig(path); err == nil {
		t.Error("malformed config should error")
	}
}
