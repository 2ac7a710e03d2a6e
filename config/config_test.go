package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Decay.Enabled {
		t.Error("expected decay disabled by default")
	}
	if cfg.Decay.HalfLifeDays != 30 {
		t.Errorf("expected HalfLifeDays=30, got %f", cfg.Decay.HalfLifeDays)
	}
	if cfg.Diversity.Enabled {
		t.Error("expected diversity disabled by default")
	}
	if cfg.Diversity.Lambda != 0.7 {
		t.Errorf("expected Lambda=0.7, got %f", cfg.Diversity.Lambda)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "refine.yaml")

	content := `
decay:
  enabled: true
  half_life_days: 7
diversity:
  lambda: 0.5
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Decay.Enabled {
		t.Error("expected decay enabled")
	}
	if cfg.Decay.HalfLifeDays != 7 {
		t.Errorf("expected HalfLifeDays=7, got %f", cfg.Decay.HalfLifeDays)
	}
	if cfg.Diversity.Enabled {
		t.Error("expected diversity to keep its default (disabled)")
	}
	if cfg.Diversity.Lambda != 0.5 {
		t.Errorf("expected Lambda=0.5, got %f", cfg.Diversity.Lambda)
	}
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "refine.yaml")

	content := `
decay:
  enabled: true
  some_future_option: 42
experimental:
  feature: "on"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("expected unknown keys to be ignored, got %v", err)
	}
	if !cfg.Decay.Enabled {
		t.Error("expected decay enabled")
	}
	if cfg.Decay.HalfLifeDays != 30 {
		t.Errorf("expected default HalfLifeDays=30, got %f", cfg.Decay.HalfLifeDays)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "refine.yaml")

	content := `
diversity:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Diversity.Enabled {
		t.Error("expected diversity enabled")
	}
}

func TestLoadFromDir_Defaults(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Decay.Enabled || cfg.Diversity.Enabled {
		t.Error("expected both stages disabled without a config file")
	}
}

func TestMTimeIndexPath(t *testing.T) {
	path := MTimeIndexPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".refine", "mtimes.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
